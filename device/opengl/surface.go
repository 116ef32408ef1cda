package opengl

import (
	"fmt"

	"github.com/achilleasa/lumen/device"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// A surface backed by a color texture, an optional depth/stencil
// renderbuffer and a framebuffer object tying them together.
type surface struct {
	dev  *Device
	desc device.SurfaceDesc

	texture      uint32
	depthStencil uint32
	fbo          uint32

	released bool
}

func (s *surface) Name() string             { return s.desc.Name }
func (s *surface) Width() uint32            { return s.desc.Width }
func (s *surface) Height() uint32           { return s.desc.Height }
func (s *surface) Desc() device.SurfaceDesc { return s.desc }
func (s *surface) Released() bool           { return s.released }

// Delete the GL objects backing the surface.
func (s *surface) Release() {
	if s.released {
		return
	}
	s.released = true

	if s.fbo != 0 {
		gl.DeleteFramebuffers(1, &s.fbo)
		s.fbo = 0
	}
	if s.depthStencil != 0 {
		gl.DeleteRenderbuffers(1, &s.depthStencil)
		s.depthStencil = 0
	}
	if s.texture != 0 {
		gl.DeleteTextures(1, &s.texture)
		s.texture = 0
	}
	s.dev.surfaceReleased(s)
}

// Map a color format to its GL internal format and the pixel type used
// when the texture storage is specified.
func textureFormat(cf device.ColorFormat) (internalFormat int32, pixelType uint32, err error) {
	switch cf {
	case device.ColorRGBA8:
		return gl.RGBA8, gl.UNSIGNED_BYTE, nil
	case device.ColorRGBA16F:
		return gl.RGBA16F, gl.HALF_FLOAT, nil
	case device.ColorRGBA32F:
		return gl.RGBA32F, gl.FLOAT, nil
	}
	return 0, 0, fmt.Errorf("unsupported color format %s", cf)
}

// Allocate the GL objects for a surface. On failure, any objects created
// so far are deleted.
func newSurface(dev *Device, desc device.SurfaceDesc) (*surface, error) {
	internalFormat, pixelType, err := textureFormat(desc.Color)
	if err != nil {
		return nil, err
	}

	s := &surface{dev: dev, desc: desc}
	w, h := int32(desc.Width), int32(desc.Height)

	dev.clearErrors()
	gl.GenTextures(1, &s.texture)
	gl.BindTexture(gl.TEXTURE_2D, s.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, w, h, 0, gl.RGBA, pixelType, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if err = dev.checkError("texture storage"); err != nil {
		s.discard()
		return nil, err
	}

	gl.GenFramebuffers(1, &s.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, s.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, s.texture, 0)

	if desc.Depth == device.Depth24Stencil8 {
		gl.GenRenderbuffers(1, &s.depthStencil)
		gl.BindRenderbuffer(gl.RENDERBUFFER, s.depthStencil)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, w, h)
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
		if err = dev.checkError("depth/stencil storage"); err != nil {
			gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
			s.discard()
			return nil, err
		}
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, s.depthStencil)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		s.discard()
		return nil, fmt.Errorf("incomplete framebuffer (status 0x%x)", status)
	}

	return s, nil
}

// Delete the GL objects of a surface that failed to allocate. Unlike
// Release, the device's live surface count is not updated.
func (s *surface) discard() {
	s.released = true
	gl.DeleteFramebuffers(1, &s.fbo)
	gl.DeleteRenderbuffers(1, &s.depthStencil)
	gl.DeleteTextures(1, &s.texture)
	s.fbo, s.depthStencil, s.texture = 0, 0, 0
}
