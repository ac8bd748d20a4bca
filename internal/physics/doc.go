// Package physics implements the per-frame numerics of the simulation:
// magnetic force evaluation, explicit time integration with quadratic drag,
// and collision response against the ground plane and between particles.
//
// The model is stylized, not electromagnetically exact. Forces are always
// attractive, field shaping is a per-type multiplier on an inverse-square
// base, and degenerate inputs are absorbed by guards and clamps rather than
// surfaced as errors: a frame must always leave the world in a renderable
// state.
//
// Everything here is deterministic. Given identical inputs the functions
// produce bit-identical outputs; there is no randomness anywhere in the
// step path.
package physics
