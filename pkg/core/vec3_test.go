package core

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
)

const tolerance = 1e-5

func approxEqual(a, b Vec3) bool {
	return math32.Abs(a.X-b.X) <= tolerance &&
		math32.Abs(a.Y-b.Y) <= tolerance &&
		math32.Abs(a.Z-b.Z) <= tolerance
}

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		result   Vec3
		expected Vec3
	}{
		{"add", a.Add(b), NewVec3(5, -3, 9)},
		{"subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !approxEqual(tt.result, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}

	if dot := a.Dot(b); dot != 12 {
		t.Errorf("Expected dot product 12, got %f", dot)
	}
}

func TestVec3_LengthAndNormalize(t *testing.T) {
	v := NewVec3(3, 4, 0)
	if v.Length() != 5 {
		t.Errorf("Expected length 5, got %f", v.Length())
	}
	if v.LengthSquared() != 25 {
		t.Errorf("Expected squared length 25, got %f", v.LengthSquared())
	}

	n := v.Normalize()
	if math32.Abs(n.Length()-1) > tolerance {
		t.Errorf("Expected unit length, got %f", n.Length())
	}
	if !approxEqual(n, NewVec3(0.6, 0.8, 0)) {
		t.Errorf("Expected (0.6, 0.8, 0), got %v", n)
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	n := Vec3{}.Normalize()
	if !n.IsZero() {
		t.Errorf("Expected zero vector to normalize to zero, got %v", n)
	}
	if math32.IsNaN(n.X) || math32.IsNaN(n.Y) || math32.IsNaN(n.Z) {
		t.Errorf("Normalize produced NaN: %v", n)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(0, 0, 1), NewVec3(1, 0, 0))
	p := ray.At(4)
	if !approxEqual(p, NewVec3(4, 0, 1)) {
		t.Errorf("Expected (4, 0, 1), got %v", p)
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		p := RandomInUnitDisk(random)
		if p.Z != 0 {
			t.Fatalf("Expected point in the XY plane, got %v", p)
		}
		if p.Dot(p) > 1 {
			t.Fatalf("Point %v lies outside the unit disk", p)
		}
	}
}

func TestVec3_ToRGB(t *testing.T) {
	tests := []struct {
		name     string
		color    Vec3
		expected RGB
	}{
		{"in range truncates", NewVec3(10.9, 128.5, 254.99), RGB{10, 128, 254}},
		{"overlit saturates", NewVec3(300, 256, 1000), RGB{255, 255, 255}},
		{"negative noise clamps to zero", NewVec3(-0.001, -50, 0), RGB{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.color.ToRGB(); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
