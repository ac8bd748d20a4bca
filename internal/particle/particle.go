package particle

import (
	"fmt"
	"math"

	"github.com/san-kum/ferrosim/internal/vecmath"
)

// Defaults applied when a spawn request leaves mass or radius unset.
const (
	DefaultMass   = 0.1
	DefaultRadius = 0.1
)

// Particle is a point mass. Mass and Radius are fixed for the lifetime of a
// slot occupancy; Age counts seconds since spawn and resets only when the
// slot is recycled.
type Particle struct {
	Pos    vecmath.Vec3
	Vel    vecmath.Vec3
	Mass   float64
	Radius float64
	Age    float64
	Alive  bool
}

// SpawnOptions override the defaults for a single spawn. Zero values mean
// "use the default"; explicit non-positive or non-finite values are rejected.
type SpawnOptions struct {
	Mass   float64
	Radius float64
	Vel    vecmath.Vec3
}

func (o SpawnOptions) resolve() (mass, radius float64, err error) {
	mass, radius = o.Mass, o.Radius
	if mass == 0 {
		mass = DefaultMass
	}
	if radius == 0 {
		radius = DefaultRadius
	}
	if mass <= 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return 0, 0, fmt.Errorf("%w: mass %v", ErrInvalidParameter, o.Mass)
	}
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return 0, 0, fmt.Errorf("%w: radius %v", ErrInvalidParameter, o.Radius)
	}
	if !o.Vel.IsFinite() {
		return 0, 0, fmt.Errorf("%w: velocity %v", ErrInvalidParameter, o.Vel)
	}
	return mass, radius, nil
}

// Validate reports whether the options could spawn a particle, without
// spawning one. Lets callers fail fast before queueing a request.
func (o SpawnOptions) Validate() error {
	_, _, err := o.resolve()
	return err
}

// Bounds is the axis-aligned world region outside which particles are culled.
type Bounds struct {
	MaxX, MaxZ float64
	MinY, MaxY float64
}

func DefaultBounds() Bounds {
	return Bounds{MaxX: 15, MaxZ: 15, MinY: -5, MaxY: 15}
}

func (b Bounds) Contains(p vecmath.Vec3) bool {
	return math.Abs(p.X) <= b.MaxX && math.Abs(p.Z) <= b.MaxZ &&
		p.Y >= b.MinY && p.Y <= b.MaxY
}
