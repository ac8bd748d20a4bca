package physics

import (
	"math"

	"github.com/san-kum/ferrosim/internal/magnet"
	"github.com/san-kum/ferrosim/internal/vecmath"
)

// FieldParams tune the magnetic field evaluation.
type FieldParams struct {
	// Scale multiplies the inverse-square base magnitude.
	Scale float64
	// NearCutoff is the singularity guard: inside this distance a magnet
	// contributes no force at all.
	NearCutoff float64
	// MinForce and MaxForce clamp the final per-magnet magnitude.
	MinForce float64
	MaxForce float64
}

func DefaultFieldParams() FieldParams {
	return FieldParams{
		Scale:      50.0,
		NearCutoff: 0.1,
		MinForce:   0.001,
		MaxForce:   10.0,
	}
}

// poleAxis is the fixed polarity axis of bar-shaped magnets.
var poleAxis = vecmath.Vec3{Y: 1}

// Force computes the magnetic pull of one magnet on a point at `at`. The
// result always points from the point toward the magnet; no polarity or
// repulsion is modeled. Inside the near cutoff the zero vector is returned.
func Force(m magnet.Magnet, at vecmath.Vec3, fp FieldParams) vecmath.Vec3 {
	delta := at.Sub(m.Pos)
	dist := delta.Length()
	if dist < fp.NearCutoff {
		return vecmath.Vec3{}
	}

	mag := m.Strength * fp.Scale / (dist * dist)
	mag *= shape(m.Type, delta, dist)

	if mag < fp.MinForce {
		mag = fp.MinForce
	} else if mag > fp.MaxForce {
		mag = fp.MaxForce
	}

	// Unit vector from the point toward the magnet.
	return delta.Scale(-mag / dist)
}

// shape returns the per-type field multiplier. delta is magnet->point and
// dist its length, known nonzero by the caller.
func shape(t magnet.Type, delta vecmath.Vec3, dist float64) float64 {
	switch t {
	case magnet.Bar, magnet.Horseshoe:
		// Horseshoe has no shaping of its own yet and rides the bar
		// profile. Bias toward the poles along the fixed axis.
		alignment := delta.Scale(1 / dist).Dot(poleAxis)
		return math.Abs(math.Cos(math.Pi*alignment)) + 0.3
	case magnet.Ring:
		// Toroidal band: strongest at unit radial distance from the axis.
		radial := math.Sqrt(delta.X*delta.X + delta.Z*delta.Z)
		d := radial - 1
		return math.Exp(-2*d*d) + 0.2
	}
	return 1
}

// TotalForce sums the contribution of every magnet at a point. Each magnet
// is independent; there is no magnet-magnet interaction.
func TotalForce(magnets []magnet.Magnet, at vecmath.Vec3, fp FieldParams) vecmath.Vec3 {
	var total vecmath.Vec3
	for _, m := range magnets {
		total = total.Add(Force(m, at, fp))
	}
	return total
}
