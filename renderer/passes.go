package renderer

import (
	"fmt"

	"github.com/achilleasa/lumen/device"
	"github.com/go-gl/mathgl/mgl32"
)

// Inputs for the trace pass.
type TraceParams struct {
	MaxBounces   int
	RaysPerPixel int

	// Free-running frame index used to decorrelate sampling between frames.
	Frame uint32

	ViewportW uint32
	ViewportH uint32

	InvView   mgl32.Mat4
	InvProj   mgl32.Mat4
	CameraPos mgl32.Vec3
}

// The PassInvoker binds the parameters of the trace and denoise programs
// and issues their full-viewport invocations.
type PassInvoker struct {
	dev     device.Device
	trace   device.Program
	denoise device.Program
}

// Lookup the trace and denoise programs and verify that they expose the
// expected parameters.
func NewPassInvoker(dev device.Device) (*PassInvoker, error) {
	trace, err := lookupProgram(dev, device.TraceProgram, device.TraceSignature())
	if err != nil {
		return nil, err
	}
	denoise, err := lookupProgram(dev, device.DenoiseProgram, device.DenoiseSignature())
	if err != nil {
		return nil, err
	}

	return &PassInvoker{
		dev:     dev,
		trace:   trace,
		denoise: denoise,
	}, nil
}

func lookupProgram(dev device.Device, name string, sig device.Signature) (device.Program, error) {
	prog, err := dev.Program(name)
	if err != nil {
		return nil, configError(err)
	}
	if err = device.RequireParams(prog, sig.Names()...); err != nil {
		return nil, configError(err)
	}
	return prog, nil
}

// Render the trace pass into target.
func (pi *PassInvoker) Trace(target device.Surface, p TraceParams) error {
	err := pi.trace.SetParams(
		device.P(device.ParamMaxBounceCount, int32(p.MaxBounces)),
		device.P(device.ParamNumRaysPerPixel, int32(p.RaysPerPixel)),
		device.P(device.ParamFrame, p.Frame),
		device.P(device.ParamViewportWidth, int32(p.ViewportW)),
		device.P(device.ParamViewportHeight, int32(p.ViewportH)),
		device.P(device.ParamInverseView, p.InvView),
		device.P(device.ParamInverseProjection, p.InvProj),
		device.P(device.ParamCameraPosition, p.CameraPos),
	)
	if err != nil {
		return configError(fmt.Errorf("binding %s params: %w", device.TraceProgram, err))
	}

	if err = pi.dev.Draw(target, pi.trace); err != nil {
		return configError(fmt.Errorf("invoking %s: %w", device.TraceProgram, err))
	}
	return nil
}

// Blend current with previous into target using the accumulated sample count.
func (pi *PassInvoker) Denoise(target, current, previous device.Surface, samples uint32) error {
	err := pi.denoise.SetParams(
		device.P(device.ParamCurrentFrame, current),
		device.P(device.ParamPreviousFrame, previous),
		device.P(device.ParamNumRenderedFrames, int32(samples)),
	)
	if err != nil {
		return configError(fmt.Errorf("binding %s params: %w", device.DenoiseProgram, err))
	}

	if err = pi.dev.Draw(target, pi.denoise); err != nil {
		return configError(fmt.Errorf("invoking %s: %w", device.DenoiseProgram, err))
	}
	return nil
}
