package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera movement directions.
type CameraDirection uint8

// Supported camera directions.
const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
	Up
	Down
)

const (
	// Pitch is clamped to this value (in radians) to avoid flipping over the up axis.
	maxPitch = float32(89.0 * math.Pi / 180.0)

	// Default movement speed in world units per second.
	defaultMoveSpeed float32 = 200.0

	// Speed multiplier while Input.Fast is set.
	fastSpeedScaler float32 = 2.0
)

var worldUp = mgl32.Vec3{0, 1, 0}

// The set of movement keys currently held down.
type Input struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Up       bool
	Down     bool

	// Double the movement speed.
	Fast bool
}

// A free-fly camera. The camera tracks whether its position, orientation
// or projection changed since the last call to HasChanged.
type Camera struct {
	position mgl32.Vec3
	yaw      float32
	pitch    float32

	// Vertical field of view in degrees.
	fov    float32
	aspect float32
	near   float32
	far    float32

	// Movement speed in world units per second.
	MoveSpeed float32

	input Input

	viewMat mgl32.Mat4
	projMat mgl32.Mat4

	changed bool
}

// Create a camera at position looking down the -Z axis.
func NewCamera(fov, aspect float32, position mgl32.Vec3) *Camera {
	c := &Camera{
		position:  position,
		yaw:       float32(-math.Pi / 2.0),
		fov:       fov,
		aspect:    aspect,
		near:      0.1,
		far:       10000.0,
		MoveSpeed: defaultMoveSpeed,
	}
	c.updateView()
	c.updateProjection()
	return c
}

func (c *Camera) String() string {
	front := c.FrontDirection()
	return fmt.Sprintf(
		"position: (%3.3f, %3.3f, %3.3f), front: (%3.3f, %3.3f, %3.3f)",
		c.position[0], c.position[1], c.position[2],
		front[0], front[1], front[2],
	)
}

// Get the camera eye position.
func (c *Camera) Position() mgl32.Vec3 {
	return c.position
}

// Get the unit vector the camera looks at.
func (c *Camera) FrontDirection() mgl32.Vec3 {
	cosPitch := float32(math.Cos(float64(c.pitch)))
	return mgl32.Vec3{
		float32(math.Cos(float64(c.yaw))) * cosPitch,
		float32(math.Sin(float64(c.pitch))),
		float32(math.Sin(float64(c.yaw))) * cosPitch,
	}.Normalize()
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.viewMat
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projMat
}

// Report whether the camera changed since the previous call and clear
// the change flag. A newly created camera reports a change.
func (c *Camera) HasChanged() bool {
	changed := c.changed
	c.changed = false
	return changed
}

// Replace the set of held movement keys.
func (c *Camera) SetInput(in Input) {
	c.input = in
}

// Integrate the held movement keys over dt.
func (c *Camera) Advance(dt time.Duration) {
	var moved bool
	amount := c.MoveSpeed * float32(dt.Seconds())
	if c.input.Fast {
		amount *= fastSpeedScaler
	}

	for _, step := range []struct {
		held bool
		dir  CameraDirection
	}{
		{c.input.Forward, Forward},
		{c.input.Backward, Backward},
		{c.input.Left, Left},
		{c.input.Right, Right},
		{c.input.Up, Up},
		{c.input.Down, Down},
	} {
		if step.held {
			c.translate(step.dir, amount)
			moved = true
		}
	}

	if moved {
		c.updateView()
	}
}

// Move the camera along dir by amount world units.
func (c *Camera) Move(dir CameraDirection, amount float32) {
	c.translate(dir, amount)
	c.updateView()
}

func (c *Camera) translate(dir CameraDirection, amount float32) {
	front := c.FrontDirection()
	right := front.Cross(worldUp).Normalize()

	switch dir {
	case Forward:
		c.position = c.position.Add(front.Mul(amount))
	case Backward:
		c.position = c.position.Sub(front.Mul(amount))
	case Left:
		c.position = c.position.Sub(right.Mul(amount))
	case Right:
		c.position = c.position.Add(right.Mul(amount))
	case Up:
		c.position = c.position.Add(worldUp.Mul(amount))
	case Down:
		c.position = c.position.Sub(worldUp.Mul(amount))
	}
}

// Rotate the camera by the given yaw and pitch deltas (in radians).
func (c *Camera) Rotate(yaw, pitch float32) {
	if yaw == 0 && pitch == 0 {
		return
	}
	c.yaw += yaw
	c.pitch = mgl32.Clamp(c.pitch+pitch, -maxPitch, maxPitch)
	c.updateView()
}

// Update the projection aspect ratio; used when the display is resized.
func (c *Camera) SetAspect(aspect float32) {
	if aspect == c.aspect {
		return
	}
	c.aspect = aspect
	c.updateProjection()
}

func (c *Camera) updateView() {
	c.viewMat = mgl32.LookAtV(c.position, c.position.Add(c.FrontDirection()), worldUp)
	c.changed = true
}

func (c *Camera) updateProjection() {
	c.projMat = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
	c.changed = true
}
