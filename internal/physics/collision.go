package physics

import (
	"github.com/san-kum/ferrosim/internal/particle"
)

// ResolveGround clamps a particle to the y=0 plane, reflecting and damping
// downward velocity and applying horizontal friction while in contact.
func ResolveGround(p *particle.Particle, pp Params) {
	if p.Pos.Y > 0 {
		return
	}
	p.Pos.Y = 0
	if p.Vel.Y < 0 {
		p.Vel.Y = -p.Vel.Y * pp.Restitution
	}
	p.Vel.X *= pp.Friction
	p.Vel.Z *= pp.Friction
}

// ResolvePairs runs one brute-force pass of pairwise particle collision
// response over the given live set. Overlapping pairs are separated
// symmetrically and exchange an elastic impulse along the collision normal.
//
// Two accepted limitations, inherited from the tuning this engine mirrors:
// the impulse exchange carries no restitution (unlike ground contact), and
// there is no sub-stepping, so fast particles can tunnel through each other
// within a single frame. Callers gate this pass by population; the cost is
// O(n^2).
func ResolvePairs(ps []*particle.Particle, pp Params) {
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			resolvePair(ps[i], ps[j])
		}
	}
}

func resolvePair(a, b *particle.Particle) {
	delta := b.Pos.Sub(a.Pos)
	dist := delta.Length()
	minDist := a.Radius + b.Radius
	if dist >= minDist || dist == 0 {
		return
	}

	normal := delta.Scale(1 / dist)

	// Push each particle out by half the overlap.
	half := (minDist - dist) / 2
	a.Pos = a.Pos.Sub(normal.Scale(half))
	b.Pos = b.Pos.Add(normal.Scale(half))

	relVel := b.Vel.Sub(a.Vel).Dot(normal)
	if relVel > 0 {
		return // already separating
	}

	impulse := 2 * relVel / (a.Mass + b.Mass)
	a.Vel = a.Vel.Add(normal.Scale(impulse * b.Mass))
	b.Vel = b.Vel.Sub(normal.Scale(impulse * a.Mass))
}
