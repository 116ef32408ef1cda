package renderer

import (
	"errors"
	"time"

	"github.com/achilleasa/lumen/device"
	"github.com/achilleasa/lumen/device/software"
	"github.com/go-gl/mathgl/mgl32"
)

var errOutOfMemory = errors.New("out of memory")

// A software device whose next failAllocs surface allocations fail.
type flakyDevice struct {
	*software.Device
	failAllocs int
}

func (d *flakyDevice) NewSurface(desc device.SurfaceDesc) (device.Surface, error) {
	if d.failAllocs > 0 {
		d.failAllocs--
		return nil, errOutOfMemory
	}
	return d.Device.NewSurface(desc)
}

type fakeCamera struct {
	pos     mgl32.Vec3
	view    mgl32.Mat4
	proj    mgl32.Mat4
	changed bool
}

func newFakeCamera() *fakeCamera {
	pos := mgl32.Vec3{0, 100, 500}
	return &fakeCamera{
		pos:     pos,
		view:    mgl32.LookAtV(pos, mgl32.Vec3{0, 50, 0}, mgl32.Vec3{0, 1, 0}),
		proj:    mgl32.Perspective(mgl32.DegToRad(45), 4.0/3.0, 0.1, 1000),
		changed: true,
	}
}

func (c *fakeCamera) Position() mgl32.Vec3         { return c.pos }
func (c *fakeCamera) ViewMatrix() mgl32.Mat4       { return c.view }
func (c *fakeCamera) ProjectionMatrix() mgl32.Mat4 { return c.proj }
func (c *fakeCamera) Advance(_ time.Duration)      {}

func (c *fakeCamera) HasChanged() bool {
	changed := c.changed
	c.changed = false
	return changed
}

// Move the camera along the X axis.
func (c *fakeCamera) move(dx float32) {
	c.pos = c.pos.Add(mgl32.Vec3{dx, 0, 0})
	c.view = mgl32.LookAtV(c.pos, c.pos.Add(mgl32.Vec3{0, -0.1, -1}), mgl32.Vec3{0, 1, 0})
	c.changed = true
}
