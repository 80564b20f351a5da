// Package physics holds the massive bodies of a gravity simulation and the
// force pass that couples them.
//
//   - [Body]: point mass with radius, color, [Kind] and a position [Trail]
//   - [ForceField]: softened pairwise Newtonian gravity
//   - diagnostics: [KineticEnergy], [PotentialEnergy], [CenterOfMass],
//     [TotalMomentum]
//
// Bodies are built from a [Spec] with [NewBody], which rejects bad masses,
// radii and vectors with the sentinel errors from package dynamo.
//
// # Units
//
// G defaults to [DefaultG], a scaled constant chosen so that scenes with
// masses of order 1..1000 and distances of order 10..500 orbit at
// interactive speeds.
//
//	ff := physics.NewForceField()
//	ff.Accelerate(bodies)
package physics
