package renderer

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// The Camera interface is implemented by the collaborator that integrates
// camera motion. The renderer only reads from it.
type Camera interface {
	Position() mgl32.Vec3
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4

	// Report whether the camera changed since the previous call.
	HasChanged() bool

	// Integrate camera motion; invoked by the host between frames.
	Advance(dt time.Duration)
}

// The MotionGate reduces the camera state to a single per-frame
// "scene changed" signal. Sample must be called at most once per frame.
type MotionGate struct {
	camera Camera

	observed bool
	lastPos  mgl32.Vec3
	lastView mgl32.Mat4
}

func NewMotionGate(camera Camera) *MotionGate {
	return &MotionGate{camera: camera}
}

// Returns true if the viewpoint moved since the previous call. The first
// call after creation or Invalidate always reports a change.
func (g *MotionGate) Sample() bool {
	changed := g.camera.HasChanged()

	pos := g.camera.Position()
	view := g.camera.ViewMatrix()
	if !g.observed || pos != g.lastPos || view != g.lastView {
		changed = true
	}

	g.observed = true
	g.lastPos = pos
	g.lastView = view
	return changed
}

// Forget the last observed viewpoint so that the next Sample reports a change.
func (g *MotionGate) Invalidate() {
	g.observed = false
}
