package vecmath

import (
	"math"
	"testing"
)

func TestVec3_Length(t *testing.T) {
	tests := []struct {
		v        Vec3
		expected float64
	}{
		{Vec3{3, 4, 0}, 5.0},
		{Vec3{1, 0, 0}, 1.0},
		{Vec3{0, 0, 0}, 0.0},
		{Vec3{1, 1, 1}, math.Sqrt(3)},
	}

	for _, tt := range tests {
		if got := tt.v.Length(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Length(%v) = %v, want %v", tt.v, got, tt.expected)
		}
	}
}

func TestVec3_Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if sum := a.Add(b); sum != (Vec3{5, 7, 9}) {
		t.Errorf("Add failed: got %v", sum)
	}
	if diff := b.Sub(a); diff != (Vec3{3, 3, 3}) {
		t.Errorf("Sub failed: got %v", diff)
	}
	if sc := a.Scale(2); sc != (Vec3{2, 4, 6}) {
		t.Errorf("Scale failed: got %v", sc)
	}
	if d := a.Dot(b); d != 32 {
		t.Errorf("Dot failed: got %v", d)
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := Vec3{0, 3, 4}.Normalize()
	if math.Abs(v.Length()-1.0) > 1e-12 {
		t.Errorf("normalized length = %v, want 1", v.Length())
	}

	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("normalizing zero vector: got %v, want zero", z)
	}
}

func TestVec3_Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	if c := x.Cross(y); c != (Vec3{0, 0, 1}) {
		t.Errorf("x cross y = %v, want z", c)
	}
}

func TestVec3_ClampLength(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		max  float64
		want float64
	}{
		{"under limit", Vec3{1, 0, 0}, 5, 1},
		{"at limit", Vec3{5, 0, 0}, 5, 5},
		{"over limit", Vec3{30, 40, 0}, 20, 20},
		{"zero", Vec3{}, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.ClampLength(tt.max).Length(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ClampLength length = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3_IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if (Vec3{math.NaN(), 0, 0}).IsFinite() {
		t.Error("NaN vector reported finite")
	}
	if (Vec3{0, math.Inf(1), 0}).IsFinite() {
		t.Error("Inf vector reported finite")
	}
}
