package magnet

import (
	"fmt"

	"github.com/san-kum/ferrosim/internal/vecmath"
)

// Type identifies the field shape of a magnet. The set is closed:
// force computation switches over it exhaustively.
type Type uint8

const (
	Bar Type = iota
	Ring
	Horseshoe
)

func (t Type) String() string {
	switch t {
	case Bar:
		return "bar"
	case Ring:
		return "ring"
	case Horseshoe:
		return "horseshoe"
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// ParseType maps a config/CLI name to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "bar":
		return Bar, nil
	case "ring":
		return Ring, nil
	case "horseshoe":
		return Horseshoe, nil
	}
	return 0, fmt.Errorf("%w: magnet type %q", ErrInvalidParameter, s)
}

// Strength bounds. Values outside are clamped, not rejected: the strength
// slider in a host UI can push past the ends freely.
const (
	MinStrength = 0.1
	MaxStrength = 2.0
)

// Magnet is a kinematic force source. The engine reads it each frame and
// never mutates it; position and strength changes come from the host through
// the engine's command queue.
type Magnet struct {
	Pos      vecmath.Vec3
	Strength float64
	Type     Type
}

// New validates type and position and clamps strength into range.
func New(t Type, pos vecmath.Vec3, strength float64) (Magnet, error) {
	if t > Horseshoe {
		return Magnet{}, fmt.Errorf("%w: magnet type %d", ErrInvalidParameter, t)
	}
	if !pos.IsFinite() {
		return Magnet{}, fmt.Errorf("%w: magnet position %v", ErrInvalidParameter, pos)
	}
	return Magnet{Pos: pos, Strength: ClampStrength(strength), Type: t}, nil
}

func ClampStrength(s float64) float64 {
	if s < MinStrength {
		return MinStrength
	}
	if s > MaxStrength {
		return MaxStrength
	}
	return s
}

// SetStrength clamps into the valid range rather than erroring.
func (m *Magnet) SetStrength(s float64) { m.Strength = ClampStrength(s) }
