// Package device defines the contract between the frame orchestrator and a
// GPU backend: off-screen surfaces, named programs with named parameters
// and full-viewport invocations against a bound render target.
package device

import "fmt"

// The color format of a surface.
type ColorFormat uint8

// Supported color formats.
const (
	ColorRGBA8 ColorFormat = iota
	ColorRGBA16F
	ColorRGBA32F
)

func (cf ColorFormat) String() string {
	switch cf {
	case ColorRGBA8:
		return "rgba8"
	case ColorRGBA16F:
		return "rgba16f"
	case ColorRGBA32F:
		return "rgba32f"
	}
	return fmt.Sprintf("ColorFormat(%d)", uint8(cf))
}

// Parse a color format name as returned by ColorFormat.String.
func ParseColorFormat(name string) (ColorFormat, error) {
	for _, cf := range []ColorFormat{ColorRGBA8, ColorRGBA16F, ColorRGBA32F} {
		if cf.String() == name {
			return cf, nil
		}
	}
	return 0, fmt.Errorf("device: unknown color format %q", name)
}

// The depth format of a surface.
type DepthFormat uint8

// Supported depth formats.
const (
	DepthNone DepthFormat = iota
	Depth24Stencil8
)

func (df DepthFormat) String() string {
	switch df {
	case DepthNone:
		return "none"
	case Depth24Stencil8:
		return "depth24stencil8"
	}
	return fmt.Sprintf("DepthFormat(%d)", uint8(df))
}

// Describes an off-screen surface.
type SurfaceDesc struct {
	Name   string
	Width  uint32
	Height uint32
	Color  ColorFormat
	Depth  DepthFormat

	// If set, the surface contents are cleared whenever it is bound as a
	// render target so a pass can never observe residual data.
	DiscardOnBind bool
}

// A device-resident 2D color+depth surface.
type Surface interface {
	Name() string
	Width() uint32
	Height() uint32
	Desc() SurfaceDesc

	// Free the device resources backing this surface. Calling Release
	// more than once is a no-op.
	Release()

	// Returns true if the surface has been released.
	Released() bool
}

// A GPU program with a fixed set of named parameters.
type Program interface {
	Name() string

	// The names of all parameters exposed by the program.
	Params() []string

	// Bind named parameter values. Binding fails with ErrParameterNotFound
	// if the program does not expose a parameter with the given name.
	SetParams(params ...Param) error
}

// A Device manages surfaces and executes programs.
type Device interface {
	Name() string

	// Allocate a new surface.
	NewSurface(desc SurfaceDesc) (Surface, error)

	// Lookup a program by name. Returns ErrProgramNotFound if the device
	// does not provide it.
	Program(name string) (Program, error)

	// Bind target as the sole render target and issue one full-viewport
	// invocation of prog using its currently bound parameters.
	Draw(target Surface, prog Program) error

	// Copy the full contents of src into dst. Both surfaces must have
	// the same dimensions.
	Copy(src, dst Surface) error

	// Blit src onto the display surface.
	Present(src Surface) error

	// The current display surface dimensions.
	DisplaySize() (uint32, uint32)

	// Shutdown the device.
	Close()
}
