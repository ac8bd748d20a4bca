package particle

import "errors"

// Domain errors for arena operations.
var (
	// ErrInvalidParameter indicates a spawn request with unusable mass,
	// radius, or position. Spawning is the fail-fast boundary; per-frame
	// mutation never errors.
	ErrInvalidParameter = errors.New("particle: invalid parameter")

	// ErrStaleHandle indicates a handle whose slot has since been recycled
	// for a different particle.
	ErrStaleHandle = errors.New("particle: stale handle")
)
