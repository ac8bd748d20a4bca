package magnet

import "errors"

// ErrInvalidParameter indicates a magnet could not be constructed from the
// given type, position, or strength. Construction is the only place this
// package fails; per-frame force evaluation never errors.
var ErrInvalidParameter = errors.New("magnet: invalid parameter")
