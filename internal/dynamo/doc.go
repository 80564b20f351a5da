// Package dynamo provides the value types and domain errors shared by the
// gravity simulation packages.
//
//   - [Vector3]: 3D double-precision vector, immutable by convention
//   - [Color]: RGB triple with channels in [0, 1]
//   - [ValidationError]: construction-time rejection of a body request
//
// Numeric helpers never fail on degenerate input: dividing by zero or
// normalizing the zero vector yields the zero vector. Callers that need to
// reject bad input do so at construction time, see the sentinel errors in
// errors.go.
//
// # Example
//
//	a := dynamo.V(1, 0, 0)
//	b := dynamo.V(0, 1, 0)
//	n := a.Cross(b) // (0, 0, 1)
package dynamo
