package renderer

import (
	"fmt"

	"github.com/achilleasa/lumen/device"
)

// The role of a frame buffer within the per-frame sequence.
type Role uint8

// Frame buffer roles.
const (
	// Raw trace output for the current frame.
	Current Role = iota

	// Accumulated output carried over from the previous frame.
	Previous

	// This frame's denoised result; becomes next frame's Previous.
	Accumulated

	numRoles
)

func (r Role) String() string {
	switch r {
	case Current:
		return "current"
	case Previous:
		return "previous"
	case Accumulated:
		return "accumulated"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// The FrameBufferSet owns one surface per role. All surfaces share the
// same dimensions and formats and never alias each other.
type FrameBufferSet struct {
	dev      device.Device
	template device.SurfaceDesc

	buffers [numRoles]device.Surface
}

// Create an empty frame buffer set. Surfaces are created by Allocate.
func NewFrameBufferSet(dev device.Device, color device.ColorFormat, depth device.DepthFormat, discardOnBind bool) *FrameBufferSet {
	return &FrameBufferSet{
		dev: dev,
		template: device.SurfaceDesc{
			Color:         color,
			Depth:         depth,
			DiscardOnBind: discardOnBind,
		},
	}
}

// Allocate a surface for each role, releasing any previously allocated
// surfaces first. On failure no surfaces remain allocated.
func (fs *FrameBufferSet) Allocate(width, height uint32) error {
	fs.Release()

	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidFrameSize, width, height)
	}

	for role := Current; role < numRoles; role++ {
		desc := fs.template
		desc.Name = role.String()
		desc.Width, desc.Height = width, height

		surf, err := fs.dev.NewSurface(desc)
		if err != nil {
			fs.Release()
			return configError(fmt.Errorf("allocating %s frame buffer: %w", role, err))
		}
		fs.buffers[role] = surf
	}

	return nil
}

// Release all surfaces. Calling Release on an already released set is a no-op.
func (fs *FrameBufferSet) Release() {
	for role, surf := range fs.buffers {
		if surf != nil {
			surf.Release()
			fs.buffers[role] = nil
		}
	}
}

// Get the surface for a role or nil if the set is not allocated.
func (fs *FrameBufferSet) Get(role Role) device.Surface {
	if role >= numRoles {
		return nil
	}
	return fs.buffers[role]
}

// Returns true if a surface is allocated for every role.
func (fs *FrameBufferSet) Allocated() bool {
	for _, surf := range fs.buffers {
		if surf == nil {
			return false
		}
	}
	return true
}

// Get the frame buffer dimensions or 0, 0 if not allocated.
func (fs *FrameBufferSet) Size() (uint32, uint32) {
	if fs.buffers[Current] == nil {
		return 0, 0
	}
	return fs.buffers[Current].Width(), fs.buffers[Current].Height()
}
