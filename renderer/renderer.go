package renderer

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/achilleasa/lumen/device"
	"github.com/achilleasa/lumen/log"
	"github.com/go-gl/mathgl/mgl32"
)

// The host-facing rendering contract.
type Renderer interface {
	// Render the next frame and present it.
	RenderFrame() error

	// Request a frame buffer resize. The resize is applied at the start
	// of the next frame.
	Resize(width, height uint32) error

	// Release all frame buffers.
	Close()

	// Get statistics for the last rendered frame.
	Stats() FrameStats
}

// The Orchestrator drives the per-frame sequence: trace into the current
// buffer, denoise current and previous into the accumulated buffer, copy
// the accumulated buffer into previous and present it.
//
// An Orchestrator is not safe for concurrent use; it must be driven from
// the thread that owns the device.
type Orchestrator struct {
	logger log.Logger

	dev      device.Device
	camera   Camera
	settings SettingsSource

	buffers *FrameBufferSet
	gate    *MotionGate
	counter *AccumulationCounter
	passes  *PassInvoker

	// Free-running frame index.
	frameIndex uint32

	// Resize requested since the last frame.
	pendingW, pendingH uint32
	resizePending      bool

	closed bool
	stats  FrameStats
}

var _ Renderer = (*Orchestrator)(nil)

// Create a new orchestrator. The trace and denoise programs are resolved
// and the frame buffers are allocated before New returns; any failure is
// reported as a configuration error and no frame is rendered.
func New(dev device.Device, camera Camera, settings SettingsSource, opts Options) (*Orchestrator, error) {
	if dev == nil || camera == nil || settings == nil {
		return nil, configError(errors.New("device, camera and settings must be specified"))
	}

	passes, err := NewPassInvoker(dev)
	if err != nil {
		return nil, err
	}

	frameW, frameH := opts.FrameW, opts.FrameH
	if frameW == 0 || frameH == 0 {
		frameW, frameH = dev.DisplaySize()
	}

	r := &Orchestrator{
		logger:   log.New("renderer"),
		dev:      dev,
		camera:   camera,
		settings: settings,
		buffers:  NewFrameBufferSet(dev, opts.ColorFormat, opts.DepthFormat, opts.DiscardOnBind),
		gate:     NewMotionGate(camera),
		counter:  NewAccumulationCounter(),
		passes:   passes,
	}

	if err = r.buffers.Allocate(frameW, frameH); err != nil {
		return nil, err
	}
	r.logger.Infof("allocated frame buffers (%dx%d, %s) on device %s", frameW, frameH, opts.ColorFormat, dev.Name())

	return r, nil
}

// Get the frame buffer set.
func (r *Orchestrator) Buffers() *FrameBufferSet {
	return r.buffers
}

// Get the number of frames accumulated since the last scene change.
func (r *Orchestrator) AccumulatedFrames() uint32 {
	return r.counter.Value()
}

// Get statistics for the last rendered frame.
func (r *Orchestrator) Stats() FrameStats {
	return r.stats
}

// Request a frame buffer resize. The request is deferred to the next frame
// boundary; later requests replace earlier ones.
func (r *Orchestrator) Resize(width, height uint32) error {
	if r.closed {
		return ErrClosed
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidFrameSize, width, height)
	}

	r.pendingW, r.pendingH = width, height
	r.resizePending = true
	return nil
}

// Apply a pending resize. Any applied request invalidates the accumulated
// history; the buffers are only reallocated when the size changes. The
// request stays pending until reallocation succeeds so a failed attempt is
// retried on the next frame.
func (r *Orchestrator) applyPendingResize() error {
	if !r.resizePending {
		return nil
	}

	curW, curH := r.buffers.Size()
	if curW != r.pendingW || curH != r.pendingH || !r.buffers.Allocated() {
		if err := r.buffers.Allocate(r.pendingW, r.pendingH); err != nil {
			return err
		}
		r.logger.Infof("resized frame buffers to %dx%d", r.pendingW, r.pendingH)
	}

	r.resizePending = false
	r.counter.Reset()
	r.gate.Invalidate()
	return nil
}

// Render the next frame.
func (r *Orchestrator) RenderFrame() error {
	if r.closed {
		return ErrClosed
	}

	start := time.Now()
	if err := r.applyPendingResize(); err != nil {
		return err
	}
	if !r.buffers.Allocated() {
		return configError(errors.New("frame buffers are not allocated"))
	}

	sceneChanged := r.gate.Sample()
	samples := r.counter.Tick(sceneChanged)

	stats, err := r.renderSequence(samples)
	if err != nil {
		// Make sure the next frame does not blend against a history
		// that this frame failed to update.
		r.gate.Invalidate()
		return err
	}

	stats.Frame = r.frameIndex
	stats.Samples = samples
	stats.SceneChanged = sceneChanged
	stats.RenderTime = time.Since(start)
	r.stats = stats
	r.frameIndex++

	return nil
}

func (r *Orchestrator) renderSequence(samples uint32) (FrameStats, error) {
	var stats FrameStats

	current := r.buffers.Get(Current)
	previous := r.buffers.Get(Previous)
	accumulated := r.buffers.Get(Accumulated)
	stats.FrameW, stats.FrameH = r.buffers.Size()

	params, err := r.traceParams(stats.FrameW, stats.FrameH)
	if err != nil {
		return stats, err
	}

	tick := time.Now()
	if err = r.passes.Trace(current, params); err != nil {
		r.logger.Errorf("frame %d: trace pass failed: %v", r.frameIndex, err)
		return stats, err
	}
	stats.TraceTime = time.Since(tick)

	tick = time.Now()
	if err = r.passes.Denoise(accumulated, current, previous, samples); err != nil {
		r.logger.Errorf("frame %d: denoise pass failed: %v", r.frameIndex, err)
		return stats, err
	}
	stats.DenoiseTime = time.Since(tick)

	// Update the temporal history before presenting so that the displayed
	// image and next frame's history come from the same snapshot.
	tick = time.Now()
	if err = r.dev.Copy(accumulated, previous); err != nil {
		return stats, fmt.Errorf("renderer: copying %s into %s: %w", Accumulated, Previous, err)
	}
	stats.RotateTime = time.Since(tick)

	tick = time.Now()
	if err = r.dev.Present(accumulated); err != nil {
		return stats, fmt.Errorf("renderer: presenting %s: %w", Accumulated, err)
	}
	stats.PresentTime = time.Since(tick)

	r.logger.Debugf("frame %d: samples %d, trace %s, denoise %s", r.frameIndex, samples, stats.TraceTime, stats.DenoiseTime)
	return stats, nil
}

// Build the trace pass parameters from the current camera and settings.
func (r *Orchestrator) traceParams(frameW, frameH uint32) (TraceParams, error) {
	invView, err := invert(r.camera.ViewMatrix(), "view")
	if err != nil {
		return TraceParams{}, err
	}
	invProj, err := invert(r.camera.ProjectionMatrix(), "projection")
	if err != nil {
		return TraceParams{}, err
	}

	pos := r.camera.Position()
	if !finite(pos[:]...) {
		return TraceParams{}, fmt.Errorf("%w: camera position %v", ErrDegenerateCamera, pos)
	}

	return TraceParams{
		MaxBounces:   r.settings.MaxBounceCount(),
		RaysPerPixel: r.settings.RaysPerPixel(),
		Frame:        r.frameIndex,
		ViewportW:    frameW,
		ViewportH:    frameH,
		InvView:      invView,
		InvProj:      invProj,
		CameraPos:    pos,
	}, nil
}

// Release all frame buffers. The device is owned by the caller and is
// not closed.
func (r *Orchestrator) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.buffers.Release()
	r.logger.Info("released frame buffers")
}

// Invert m, failing if m is singular or contains non-finite values.
func invert(m mgl32.Mat4, name string) (mgl32.Mat4, error) {
	det := m.Det()
	if det == 0 || !finite(det) || !finite(m[:]...) {
		return mgl32.Mat4{}, fmt.Errorf("%w: %s matrix is not invertible", ErrDegenerateCamera, name)
	}

	inv := m.Inv()
	if !finite(inv[:]...) {
		return mgl32.Mat4{}, fmt.Errorf("%w: %s matrix inverse is not finite", ErrDegenerateCamera, name)
	}
	return inv, nil
}

func finite(values ...float32) bool {
	for _, v := range values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}
