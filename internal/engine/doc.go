// Package engine orchestrates the simulation frame: magnetic forces,
// integration, collision passes, and particle lifecycle, in that order,
// behind a single synchronous Step entry point.
//
// An Engine is driven by the host's scheduler and is not safe for
// concurrent use. External mutation (spawns, magnet moves, strength
// changes) goes through a command queue that is drained exactly once at the
// start of each step, so input handlers never touch simulation state
// mid-frame. Hosts are expected to clamp the frame dt (the visualizer uses
// 1/30 s) before calling Step; the engine applies no frame-level clamp of
// its own.
package engine
