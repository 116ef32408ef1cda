package renderer

import "github.com/achilleasa/lumen/device"

type Options struct {
	// Frame dims. If zero, the device display size is used.
	FrameW uint32
	FrameH uint32

	// Surface formats for the frame buffers.
	ColorFormat device.ColorFormat
	DepthFormat device.DepthFormat

	// Clear frame buffers whenever they are bound as a render target.
	DiscardOnBind bool
}

// Get the default renderer options.
func DefaultOptions() Options {
	return Options{
		ColorFormat:   device.ColorRGBA16F,
		DepthFormat:   device.Depth24Stencil8,
		DiscardOnBind: true,
	}
}
