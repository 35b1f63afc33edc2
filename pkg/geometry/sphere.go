package geometry

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Material holds the shading coefficients of a surface
type Material struct {
	Specular   float32 // Phong exponent (0 = matte)
	Reflective float32 // Mirror fraction in [0,1]
	Refractive float32 // Refractive index tag
}

// Matte is a diffuse-only material with the reference refractive index
var Matte = Material{Refractive: 1.0}

// Sphere represents a sphere shape
type Sphere struct {
	Position   core.Vec3
	Radius     float32
	Color      core.Vec3
	Specular   float32
	Reflective float32
	Refractive float32
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float32, color core.Vec3, material Material) *Sphere {
	return &Sphere{
		Position:   center,
		Radius:     radius,
		Color:      color,
		Specular:   material.Specular,
		Reflective: material.Reflective,
		Refractive: material.Refractive,
	}
}

func (s *Sphere) shape() {}

// Center returns the sphere center
func (s *Sphere) Center() core.Vec3 {
	return s.Position
}

// Validate checks the authoring-time invariants of the sphere
func (s *Sphere) Validate() error {
	var errs []error
	if !(s.Radius > 0) {
		errs = append(errs, fmt.Errorf("radius must be positive, got %g", s.Radius))
	}
	if s.Color.X < 0 || s.Color.Y < 0 || s.Color.Z < 0 {
		errs = append(errs, fmt.Errorf("color channels must be non-negative, got %v", s.Color))
	}
	if s.Specular < 0 {
		errs = append(errs, fmt.Errorf("specular exponent must be non-negative, got %g", s.Specular))
	}
	if s.Reflective < 0 || s.Reflective > 1 {
		errs = append(errs, fmt.Errorf("reflective must be in [0,1], got %g", s.Reflective))
	}
	return errors.Join(errs...)
}

// Hit tests if a ray intersects with the sphere within the open interval (tMin, tMax)
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float32) (*HitRecord, bool) {
	// Vector from sphere center to ray origin
	f := ray.Origin.Subtract(s.Position)

	// Half-b form of the quadratic: roots are (-halfB ± sqrt(disc)) / a
	a := ray.Direction.Dot(ray.Direction)
	halfB := f.Dot(ray.Direction)
	c := f.Dot(f) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c

	// Tangent rays (discriminant == 0) count as misses
	if discriminant <= 0 {
		return nil, false
	}

	sqrtD := math32.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return nil, false
		}
	}

	return &HitRecord{
		T:          root,
		Point:      ray.At(root),
		Center:     s.Position,
		Color:      s.Color,
		Specular:   s.Specular,
		Reflective: s.Reflective,
		Refractive: s.Refractive,
	}, true
}
