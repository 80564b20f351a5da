// Package particles implements the visual effect particles emitted by
// collisions and fast bodies. Particles are massless, never interact with
// bodies or each other, and expire after their lifetime.
package particles
