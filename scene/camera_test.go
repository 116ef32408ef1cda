package scene

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCameraChangeTracking(t *testing.T) {
	c := NewCamera(45, 1, mgl32.Vec3{0, 100, 500})

	if !c.HasChanged() {
		t.Fatal("expected a new camera to report a change")
	}
	if c.HasChanged() {
		t.Fatal("expected the change flag to be cleared by the previous query")
	}

	c.Advance(16 * time.Millisecond)
	if c.HasChanged() {
		t.Fatal("expected Advance without held keys to leave the camera unchanged")
	}

	c.SetInput(Input{Forward: true})
	c.Advance(16 * time.Millisecond)
	if !c.HasChanged() {
		t.Fatal("expected Advance with a held key to report a change")
	}

	c.SetInput(Input{})
	c.Rotate(0, 0)
	if c.HasChanged() {
		t.Fatal("expected a zero rotation to leave the camera unchanged")
	}

	c.Rotate(0.1, 0)
	if !c.HasChanged() {
		t.Fatal("expected a rotation to report a change")
	}

	c.SetAspect(1)
	if c.HasChanged() {
		t.Fatal("expected setting the same aspect ratio to leave the camera unchanged")
	}
	c.SetAspect(2)
	if !c.HasChanged() {
		t.Fatal("expected an aspect ratio change to report a change")
	}
}

func TestCameraMove(t *testing.T) {
	type spec struct {
		dir    CameraDirection
		expPos mgl32.Vec3
	}
	specs := []spec{
		{Forward, mgl32.Vec3{0, 0, -10}},
		{Backward, mgl32.Vec3{0, 0, 10}},
		{Left, mgl32.Vec3{-10, 0, 0}},
		{Right, mgl32.Vec3{10, 0, 0}},
		{Up, mgl32.Vec3{0, 10, 0}},
		{Down, mgl32.Vec3{0, -10, 0}},
	}

	for index, s := range specs {
		c := NewCamera(45, 1, mgl32.Vec3{})
		c.Move(s.dir, 10)
		if !c.Position().ApproxEqualThreshold(s.expPos, 1e-4) {
			t.Fatalf("[spec %d] expected camera position to be %v; got %v", index, s.expPos, c.Position())
		}
	}
}

func TestCameraFastInput(t *testing.T) {
	c := NewCamera(45, 1, mgl32.Vec3{})
	c.MoveSpeed = 10
	c.SetInput(Input{Up: true, Fast: true})
	c.Advance(time.Second)

	expPos := mgl32.Vec3{0, 20, 0}
	if !c.Position().ApproxEqualThreshold(expPos, 1e-4) {
		t.Fatalf("expected camera position to be %v; got %v", expPos, c.Position())
	}
}

func TestCameraPitchClamp(t *testing.T) {
	c := NewCamera(45, 1, mgl32.Vec3{})
	c.Rotate(0, 10)

	front := c.FrontDirection()
	if front[1] >= 1 || front[1] < 0.99 {
		t.Fatalf("expected pitch to be clamped just below vertical; got front %v", front)
	}

	view := c.ViewMatrix()
	if view.Det() == 0 {
		t.Fatal("expected a clamped pitch to produce an invertible view matrix")
	}
}

func TestSphereIntersect(t *testing.T) {
	s := Sphere{Position: mgl32.Vec3{0, 0, -10}, Radius: 2}

	dist, hit := s.Intersect(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})
	if !hit || mgl32.Abs(dist-8) > 1e-4 {
		t.Fatalf("expected hit at distance 8; got %v (hit: %t)", dist, hit)
	}

	if _, hit = s.Intersect(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}); hit {
		t.Fatal("expected ray pointing away from the sphere to miss")
	}

	// Origin inside the sphere hits the far side
	dist, hit = s.Intersect(mgl32.Vec3{0, 0, -10}, mgl32.Vec3{0, 0, 1})
	if !hit || mgl32.Abs(dist-2) > 1e-4 {
		t.Fatalf("expected hit at distance 2; got %v (hit: %t)", dist, hit)
	}
}
