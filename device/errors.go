package device

import "errors"

var (
	ErrProgramNotFound      = errors.New("device: program not found")
	ErrProgramBuild         = errors.New("device: program build failed")
	ErrParameterNotFound    = errors.New("device: program parameter not found")
	ErrUnsupportedParamType = errors.New("device: unsupported parameter type")
	ErrSurfaceAllocation    = errors.New("device: could not allocate surface")
	ErrSurfaceReleased      = errors.New("device: surface has been released")
	ErrFeedbackLoop         = errors.New("device: target surface is bound as a program input")
	ErrSizeMismatch         = errors.New("device: surface dimensions do not match")
	ErrForeignSurface       = errors.New("device: surface belongs to a different device")
)
