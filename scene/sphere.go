package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// A sphere primitive.
type Sphere struct {
	Position mgl32.Vec3
	Radius   float32
	Color    mgl32.Vec3

	// Emitted radiance scaler; 0 for non-emissive spheres.
	Emission float32
}

// The built-in demo scene: a large ground sphere, a light and a few
// colored spheres resting on the ground.
func DefaultSpheres() []Sphere {
	return []Sphere{
		{Position: mgl32.Vec3{0, -1000, 0}, Radius: 1000, Color: mgl32.Vec3{0.8, 0.8, 0.8}},
		{Position: mgl32.Vec3{-150, 50, 0}, Radius: 50, Color: mgl32.Vec3{0.9, 0.2, 0.2}},
		{Position: mgl32.Vec3{0, 50, 0}, Radius: 50, Color: mgl32.Vec3{0.2, 0.9, 0.2}},
		{Position: mgl32.Vec3{150, 50, 0}, Radius: 50, Color: mgl32.Vec3{0.2, 0.2, 0.9}},
		{Position: mgl32.Vec3{0, 400, -200}, Radius: 120, Color: mgl32.Vec3{1, 1, 1}, Emission: 4},
	}
}

// Intersect a ray with the sphere. Returns the distance along the ray to
// the closest hit in front of the origin, or false on a miss.
func (s Sphere) Intersect(origin, dir mgl32.Vec3) (float32, bool) {
	oc := origin.Sub(s.Position)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sqrtDisc := float32(math.Sqrt(float64(disc)))
	const epsilon = 1e-3
	if t := -b - sqrtDisc; t > epsilon {
		return t, true
	}
	if t := -b + sqrtDisc; t > epsilon {
		return t, true
	}
	return 0, false
}
