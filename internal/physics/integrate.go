package physics

import (
	"github.com/san-kum/ferrosim/internal/particle"
	"github.com/san-kum/ferrosim/internal/vecmath"
)

// Params tune the integrator and collision response.
type Params struct {
	// Gravity is the Y acceleration scale; negative pulls down.
	Gravity float64
	// Drag is the quadratic air resistance coefficient.
	Drag float64
	// Damping is the global velocity multiplier applied once per step,
	// after ground handling.
	Damping float64
	// MaxSpeed caps velocity magnitude after each acceleration update.
	MaxSpeed float64
	// Restitution scales the reflected vertical velocity on ground impact.
	Restitution float64
	// Friction scales horizontal velocity while in ground contact.
	Friction float64
}

func DefaultParams() Params {
	return Params{
		Gravity:     -9.81,
		Drag:        0.99,
		Damping:     0.98,
		MaxSpeed:    20.0,
		Restitution: 0.3,
		Friction:    0.8,
	}
}

// Integrate advances one particle by dt under the given total magnetic
// force, gravity, and drag, then resolves ground contact and applies the
// global damping. Semi-implicit: velocity updates before position.
func Integrate(p *particle.Particle, magnetic vecmath.Vec3, dt float64, pp Params) {
	gravity := vecmath.Vec3{Y: pp.Gravity * p.Mass}
	drag := p.Vel.Scale(-pp.Drag * p.Vel.Length())

	total := gravity.Add(drag).Add(magnetic)
	accel := total.Scale(1 / p.Mass)

	p.Vel = p.Vel.Add(accel.Scale(dt)).ClampLength(pp.MaxSpeed)
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))

	ResolveGround(p, pp)

	p.Vel = p.Vel.Scale(pp.Damping)
}
