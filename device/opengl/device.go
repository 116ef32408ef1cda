// Package opengl implements the device contract on top of an OpenGL 4.1
// core context owned by a glfw window. The window's default framebuffer is
// the display surface.
//
// All methods must be invoked from the goroutine that created the device;
// callers are expected to lock it to the main OS thread.
package opengl

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/achilleasa/lumen/device"
	"github.com/achilleasa/lumen/log"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

//go:embed shaders
var builtinShaders embed.FS

var vertexSource = mustReadShader(builtinShaders, "shaders/fullscreen.vert")

const (
	// Extension used for fragment program sources.
	fragmentExt = ".frag"

	// Upper bound on the error flags drained by clearErrors.
	maxPendingErrors = 16
)

// Options for creating an OpenGL device.
type Options struct {
	Width  uint32
	Height uint32
	Title  string

	// If set, program sources are loaded from <ShaderDir>/<name>.frag
	// instead of the built-in sources.
	ShaderDir string

	// Enable vsync.
	VSync bool
}

// A glfw/OpenGL backed device.
type Device struct {
	logger log.Logger

	window *glfw.Window

	// A vertex array object without attributes; required by the core
	// profile for the full-screen triangle.
	vao uint32

	shaders  fs.FS
	programs map[string]*program

	liveSurfaces int

	onResize func(w, h uint32)
}

// Create a window with an OpenGL 4.1 core context and make it current.
func New(opts Options) (*Device, error) {
	var err error
	if err = glfw.Init(); err != nil {
		return nil, fmt.Errorf("opengl device: failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	d := &Device{
		logger:   log.New("opengl device"),
		programs: make(map[string]*program),
	}

	d.window, err = glfw.CreateWindow(int(opts.Width), int(opts.Height), opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("opengl device: could not create window: %w", err)
	}
	d.window.MakeContextCurrent()

	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err = gl.Init(); err != nil {
		d.window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("opengl device: could not init opengl: %w", err)
	}
	d.logger.Infof("initialized OpenGL %s (%s)", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	if opts.ShaderDir != "" {
		d.shaders = os.DirFS(opts.ShaderDir)
		d.logger.Noticef("loading programs from %s", opts.ShaderDir)
	} else {
		d.shaders, _ = fs.Sub(builtinShaders, "shaders")
	}

	gl.GenVertexArrays(1, &d.vao)
	gl.Disable(gl.DEPTH_TEST)

	d.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if d.onResize != nil && width > 0 && height > 0 {
			d.onResize(uint32(width), uint32(height))
		}
	})

	return d, nil
}

func (d *Device) Name() string {
	return gl.GoStr(gl.GetString(gl.RENDERER))
}

// The window owning the device context.
func (d *Device) Window() *glfw.Window {
	return d.window
}

// Register a callback for display framebuffer size changes. Minimizing the
// window reports a zero size which is not forwarded.
func (d *Device) OnResize(fn func(w, h uint32)) {
	d.onResize = fn
}

func (d *Device) DisplaySize() (uint32, uint32) {
	w, h := d.window.GetFramebufferSize()
	return uint32(w), uint32(h)
}

// The number of surfaces that are currently allocated.
func (d *Device) LiveSurfaces() int {
	return d.liveSurfaces
}

// List the programs available to the device.
func (d *Device) ProgramNames() ([]string, error) {
	matches, err := fs.Glob(d.shaders, "*"+fragmentExt)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, match[:len(match)-len(fragmentExt)])
	}
	sort.Strings(names)
	return names, nil
}

// Lookup a program by name, compiling it on first use.
func (d *Device) Program(name string) (device.Program, error) {
	if prog, found := d.programs[name]; found {
		return prog, nil
	}

	source, err := fs.ReadFile(d.shaders, name+fragmentExt)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("opengl device: %w: %s", device.ErrProgramNotFound, name)
	} else if err != nil {
		return nil, fmt.Errorf("opengl device: reading program %s: %w", name, err)
	}

	prog, err := buildProgram(d, name, string(source))
	if err != nil {
		return nil, fmt.Errorf("opengl device: %w: %s: %v", device.ErrProgramBuild, name, err)
	}
	d.programs[name] = prog
	d.logger.Infof("compiled program %s (params: %v)", name, prog.sig.Names())
	return prog, nil
}

// Allocate a new surface.
func (d *Device) NewSurface(desc device.SurfaceDesc) (device.Surface, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("opengl device: %w %s: invalid dimensions %dx%d", device.ErrSurfaceAllocation, desc.Name, desc.Width, desc.Height)
	}

	s, err := newSurface(d, desc)
	if err != nil {
		return nil, fmt.Errorf("opengl device: %w %s: %v", device.ErrSurfaceAllocation, desc.Name, err)
	}
	d.liveSurfaces++
	d.logger.Debugf("allocated surface %s (%dx%d, %s, %s)", desc.Name, desc.Width, desc.Height, desc.Color, desc.Depth)
	return s, nil
}

func (d *Device) surfaceReleased(s *surface) {
	d.liveSurfaces--
	d.logger.Debugf("released surface %s", s.desc.Name)
}

// Ensure that surf was allocated by this device and has not been released.
func (d *Device) ownSurface(surf device.Surface) (*surface, error) {
	s, ok := surf.(*surface)
	if !ok || s.dev != d {
		return nil, fmt.Errorf("opengl device: %w: %s", device.ErrForeignSurface, surf.Name())
	}
	if s.released {
		return nil, fmt.Errorf("opengl device: %w: %s", device.ErrSurfaceReleased, s.desc.Name)
	}
	return s, nil
}

// Bind target as the render target and draw a full-screen triangle with
// prog.
func (d *Device) Draw(targetSurf device.Surface, progIface device.Program) error {
	target, err := d.ownSurface(targetSurf)
	if err != nil {
		return err
	}
	prog, ok := progIface.(*program)
	if !ok || prog.dev != d {
		return fmt.Errorf("opengl device: %w: %s", device.ErrProgramNotFound, progIface.Name())
	}
	for _, src := range prog.boundSurfaces() {
		if src == target {
			return fmt.Errorf("opengl device: program %s: %w: %s", prog.name, device.ErrFeedbackLoop, target.desc.Name)
		}
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, target.fbo)
	gl.Viewport(0, 0, int32(target.desc.Width), int32(target.desc.Height))
	if target.desc.DiscardOnBind {
		gl.ClearColor(0, 0, 0, 0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
	}

	if err = prog.apply(); err != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return err
	}

	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	return d.checkError("draw " + prog.name)
}

// Copy the contents of src into dst.
func (d *Device) Copy(srcSurf, dstSurf device.Surface) error {
	src, err := d.ownSurface(srcSurf)
	if err != nil {
		return err
	}
	dst, err := d.ownSurface(dstSurf)
	if err != nil {
		return err
	}
	if src == dst {
		return fmt.Errorf("opengl device: copy: %w: %s", device.ErrFeedbackLoop, src.desc.Name)
	}
	if src.desc.Width != dst.desc.Width || src.desc.Height != dst.desc.Height {
		return fmt.Errorf(
			"opengl device: copy %s (%dx%d) -> %s (%dx%d): %w",
			src.desc.Name, src.desc.Width, src.desc.Height,
			dst.desc.Name, dst.desc.Width, dst.desc.Height,
			device.ErrSizeMismatch,
		)
	}

	w, h := int32(src.desc.Width), int32(src.desc.Height)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, src.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, dst.fbo)
	gl.BlitFramebuffer(0, 0, w, h, 0, 0, w, h, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	return d.checkError("copy " + src.desc.Name)
}

// Blit src onto the window framebuffer, scaling it to the display size.
// The caller swaps the window buffers.
func (d *Device) Present(srcSurf device.Surface) error {
	src, err := d.ownSurface(srcSurf)
	if err != nil {
		return err
	}

	dispW, dispH := d.DisplaySize()
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, src.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(
		0, 0, int32(src.desc.Width), int32(src.desc.Height),
		0, 0, int32(dispW), int32(dispH),
		gl.COLOR_BUFFER_BIT, gl.LINEAR,
	)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	return d.checkError("present " + src.desc.Name)
}

func (d *Device) checkError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("opengl device: %s: gl error 0x%x", op, code)
	}
	return nil
}

// Drop any pending GL errors so that the next checkError call only reports
// errors raised after this point.
func (d *Device) clearErrors() {
	for i := 0; i < maxPendingErrors && gl.GetError() != gl.NO_ERROR; i++ {
	}
}

// Delete all programs, destroy the window and terminate glfw.
func (d *Device) Close() {
	if d.window == nil {
		return
	}
	if d.liveSurfaces != 0 {
		d.logger.Warningf("closing device with %d unreleased surfaces", d.liveSurfaces)
	}

	for _, prog := range d.programs {
		prog.release()
	}
	d.programs = make(map[string]*program)
	gl.DeleteVertexArrays(1, &d.vao)

	d.window.Destroy()
	d.window = nil
	glfw.Terminate()
}

func mustReadShader(fsys fs.FS, path string) string {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		panic(err)
	}
	return string(data)
}
