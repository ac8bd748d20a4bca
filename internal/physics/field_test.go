package physics

import (
	"math"
	"testing"

	"github.com/san-kum/ferrosim/internal/magnet"
	"github.com/san-kum/ferrosim/internal/vecmath"
)

func mustMagnet(t *testing.T, typ magnet.Type, pos vecmath.Vec3, strength float64) magnet.Magnet {
	t.Helper()
	m, err := magnet.New(typ, pos, strength)
	if err != nil {
		t.Fatalf("magnet.New: %v", err)
	}
	return m
}

func TestForce_SingularityGuard(t *testing.T) {
	fp := DefaultFieldParams()
	m := mustMagnet(t, magnet.Bar, vecmath.Vec3{Y: 1}, 1.0)

	tests := []vecmath.Vec3{
		{Y: 1},          // exactly at the magnet
		{Y: 1.05},       // inside cutoff
		{X: 0.09, Y: 1}, // just inside
	}

	for _, at := range tests {
		if f := Force(m, at, fp); f != (vecmath.Vec3{}) {
			t.Errorf("Force at %v = %v, want exact zero", at, f)
		}
	}
}

func TestForce_MagnitudeAlwaysInRange(t *testing.T) {
	fp := DefaultFieldParams()

	for _, typ := range []magnet.Type{magnet.Bar, magnet.Ring, magnet.Horseshoe} {
		for _, strength := range []float64{0.1, 0.5, 1.0, 2.0} {
			m := mustMagnet(t, typ, vecmath.Vec3{Y: 2}, strength)
			for x := -15.0; x <= 15.0; x += 3 {
				for y := -5.0; y <= 15.0; y += 4 {
					for z := -15.0; z <= 15.0; z += 5 {
						at := vecmath.Vec3{X: x, Y: y, Z: z}
						if at.Distance(m.Pos) < fp.NearCutoff {
							continue
						}
						l := Force(m, at, fp).Length()
						if l < fp.MinForce-1e-12 || l > fp.MaxForce+1e-12 {
							t.Fatalf("%v strength %v at %v: |F| = %v outside [%v, %v]",
								typ, strength, at, l, fp.MinForce, fp.MaxForce)
						}
					}
				}
			}
		}
	}
}

func TestForce_AlwaysAttractive(t *testing.T) {
	fp := DefaultFieldParams()
	m := mustMagnet(t, magnet.Ring, vecmath.Vec3{X: 1, Y: 3, Z: -2}, 1.5)

	for _, at := range []vecmath.Vec3{
		{X: 5, Y: 1, Z: 0},
		{X: -4, Y: 8, Z: 3},
		{X: 1, Y: -2, Z: -2},
	} {
		f := Force(m, at, fp)
		toward := m.Pos.Sub(at)
		if f.Dot(toward) <= 0 {
			t.Errorf("force at %v points away from magnet: %v", at, f)
		}
	}
}

func TestForce_BarClampedNearPole(t *testing.T) {
	fp := DefaultFieldParams()
	m := mustMagnet(t, magnet.Bar, vecmath.Vec3{}, 1.0)

	// Directly above the pole at distance 2: base 50/4 = 12.5, pole bias
	// |cos(pi)|+0.3 = 1.3, product 16.25 clamps to 10.
	f := Force(m, vecmath.Vec3{Y: 2}, fp)
	if math.Abs(f.Length()-fp.MaxForce) > 1e-12 {
		t.Errorf("|F| = %v, want clamp at %v", f.Length(), fp.MaxForce)
	}
	if f.Y >= 0 {
		t.Errorf("force above magnet must pull down, got %v", f)
	}
}

func TestForce_MinClampFarOffAxis(t *testing.T) {
	fp := DefaultFieldParams()
	m := mustMagnet(t, magnet.Bar, vecmath.Vec3{}, 0.1)

	// Distance 40 at 30 degrees elevation: alignment is exactly 0.5, so the
	// pole bias bottoms out at 0.3 and 0.1*50/1600*0.3 < MinForce.
	at := vecmath.Vec3{X: math.Sqrt(1200), Y: 20}
	f := Force(m, at, fp)
	if math.Abs(f.Length()-fp.MinForce) > 1e-9 {
		t.Errorf("|F| = %v, want floor %v", f.Length(), fp.MinForce)
	}
}

func TestForce_RingBandPeaksAtUnitRadius(t *testing.T) {
	fp := DefaultFieldParams()
	m := mustMagnet(t, magnet.Ring, vecmath.Vec3{}, 0.3)

	// Same distance from the magnet center, different radial distance from
	// the axis: the band at radial distance 1 should dominate.
	dist := 6.0
	inBand := vecmath.Vec3{X: 1, Y: math.Sqrt(dist*dist - 1)}
	offBand := vecmath.Vec3{X: 5, Y: math.Sqrt(dist*dist - 25)}

	fIn := Force(m, inBand, fp).Length()
	fOff := Force(m, offBand, fp).Length()
	if fIn <= fOff {
		t.Errorf("band attraction: in-band %v <= off-band %v", fIn, fOff)
	}
}

func TestForce_HorseshoeMatchesBar(t *testing.T) {
	fp := DefaultFieldParams()
	pos := vecmath.Vec3{Y: 2}
	bar := mustMagnet(t, magnet.Bar, pos, 0.7)
	shoe := mustMagnet(t, magnet.Horseshoe, pos, 0.7)

	for _, at := range []vecmath.Vec3{
		{X: 3, Y: 1, Z: -2},
		{X: -1, Y: 5, Z: 0},
	} {
		if Force(bar, at, fp) != Force(shoe, at, fp) {
			t.Errorf("horseshoe diverged from bar fallback at %v", at)
		}
	}
}

func TestTotalForce_Sums(t *testing.T) {
	fp := DefaultFieldParams()
	m1 := mustMagnet(t, magnet.Bar, vecmath.Vec3{X: 2, Y: 1}, 1.0)
	m2 := mustMagnet(t, magnet.Ring, vecmath.Vec3{X: -2, Y: 1}, 1.0)
	at := vecmath.Vec3{Y: 0.5}

	sum := Force(m1, at, fp).Add(Force(m2, at, fp))
	total := TotalForce([]magnet.Magnet{m1, m2}, at, fp)
	if total != sum {
		t.Errorf("TotalForce = %v, want %v", total, sum)
	}

	if z := TotalForce(nil, at, fp); z != (vecmath.Vec3{}) {
		t.Errorf("TotalForce with no magnets = %v, want zero", z)
	}
}

func BenchmarkTotalForce(b *testing.B) {
	fp := DefaultFieldParams()
	magnets := make([]magnet.Magnet, 4)
	for i := range magnets {
		m, _ := magnet.New(magnet.Type(i%3), vecmath.Vec3{X: float64(i), Y: 2}, 1.0)
		magnets[i] = m
	}
	at := vecmath.Vec3{X: 1, Y: 0.5, Z: -1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		TotalForce(magnets, at, fp)
	}
}
