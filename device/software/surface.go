package software

import (
	"math"

	"github.com/achilleasa/lumen/device"
	"github.com/go-gl/mathgl/mgl32"
)

// Number of float32 components per pixel.
const pixelStride = 4

// A host-memory surface. Pixels are stored as linear RGBA float32 values
// in row-major order; RGBA8 surfaces quantize values when written.
type surface struct {
	dev  *Device
	desc device.SurfaceDesc

	pix      []float32
	released bool
}

func (s *surface) Name() string             { return s.desc.Name }
func (s *surface) Width() uint32            { return s.desc.Width }
func (s *surface) Height() uint32           { return s.desc.Height }
func (s *surface) Desc() device.SurfaceDesc { return s.desc }
func (s *surface) Released() bool           { return s.released }

// Release the pixel storage.
func (s *surface) Release() {
	if s.released {
		return
	}
	s.released = true
	s.pix = nil
	s.dev.surfaceReleased(s)
}

// Zero all pixels.
func (s *surface) clear() {
	for i := range s.pix {
		s.pix[i] = 0
	}
}

func (s *surface) at(x, y int) mgl32.Vec4 {
	offset := (y*int(s.desc.Width) + x) * pixelStride
	return mgl32.Vec4{s.pix[offset], s.pix[offset+1], s.pix[offset+2], s.pix[offset+3]}
}

func (s *surface) set(x, y int, v mgl32.Vec4) {
	offset := (y*int(s.desc.Width) + x) * pixelStride
	if s.desc.Color == device.ColorRGBA8 {
		for c := 0; c < pixelStride; c++ {
			s.pix[offset+c] = quantize8(v[c])
		}
		return
	}
	copy(s.pix[offset:offset+pixelStride], v[:])
}

// Clamp v to [0, 1] and round it to the nearest 8-bit step.
func quantize8(v float32) float32 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return float32(math.Round(float64(v)*255.0)) / 255.0
}
