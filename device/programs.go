package device

// Names of the programs driven by the frame orchestrator.
const (
	TraceProgram   = "TraceProgram"
	DenoiseProgram = "DenoiseProgram"
)

// TraceProgram parameters.
const (
	ParamMaxBounceCount    = "MaxBounceCount"
	ParamNumRaysPerPixel   = "NumRaysPerPixel"
	ParamFrame             = "Frame"
	ParamViewportWidth     = "ViewportWidth"
	ParamViewportHeight    = "ViewportHeight"
	ParamInverseView       = "InverseView"
	ParamInverseProjection = "InverseProjection"
	ParamCameraPosition    = "CameraPosition"
)

// DenoiseProgram parameters.
const (
	ParamCurrentFrame      = "CurrentFrame"
	ParamPreviousFrame     = "PreviousFrame"
	ParamNumRenderedFrames = "NumRenderedFrames"
)

// The parameter signature of TraceProgram.
func TraceSignature() Signature {
	return Signature{
		ParamMaxBounceCount:    KindInt,
		ParamNumRaysPerPixel:   KindInt,
		ParamFrame:             KindUint,
		ParamViewportWidth:     KindInt,
		ParamViewportHeight:    KindInt,
		ParamInverseView:       KindMat4,
		ParamInverseProjection: KindMat4,
		ParamCameraPosition:    KindVec3,
	}
}

// The parameter signature of DenoiseProgram.
func DenoiseSignature() Signature {
	return Signature{
		ParamCurrentFrame:      KindSurface,
		ParamPreviousFrame:     KindSurface,
		ParamNumRenderedFrames: KindInt,
	}
}
