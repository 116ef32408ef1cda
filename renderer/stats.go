package renderer

import "time"

type FrameStats struct {
	// Free-running frame index passed to the trace pass.
	Frame uint32

	// Number of accumulated samples passed to the denoise pass.
	Samples uint32

	// True if the frame restarted accumulation.
	SceneChanged bool

	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Time spent in each stage.
	TraceTime   time.Duration
	DenoiseTime time.Duration
	RotateTime  time.Duration
	PresentTime time.Duration

	// Total render time for entire frame.
	RenderTime time.Duration
}
