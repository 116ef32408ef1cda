package cmd

import (
	"fmt"
	"runtime"
	"time"

	"github.com/achilleasa/lumen/device/opengl"
	"github.com/achilleasa/lumen/renderer"
	"github.com/achilleasa/lumen/scene"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli"
)

const (
	// Coefficients for converting delta cursor movements to yaw/pitch camera angles.
	mouseSensitivityX float32 = 0.005
	mouseSensitivityY float32 = 0.005

	windowTitle = "lumen"

	// How often the window title statistics are refreshed.
	titleRefreshInterval = time.Second
)

// The state of an interactive rendering session.
type interactiveSession struct {
	window   *glfw.Window
	camera   *scene.Camera
	settings *renderer.Settings
	r        *renderer.Orchestrator

	input         scene.Input
	lastCursorPos mgl32.Vec2
	mousePressed  bool
}

// Render a continuously updating view of the scene using the OpenGL device.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	// All GL calls must originate from the thread that owns the context.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	opts, settings, err := parseRenderOptions(ctx)
	if err != nil {
		return err
	}
	camPos, err := parseVec3(ctx.String("camera-pos"))
	if err != nil {
		return err
	}

	dev, err := opengl.New(opengl.Options{
		Width:     opts.FrameW,
		Height:    opts.FrameH,
		Title:     windowTitle,
		ShaderDir: ctx.String("shader-dir"),
		VSync:     ctx.Bool("vsync"),
	})
	if err != nil {
		return err
	}
	defer dev.Close()

	// The framebuffer may be larger than the requested window size on
	// high-DPI displays.
	opts.FrameW, opts.FrameH = dev.DisplaySize()
	camera := scene.NewCamera(cameraFOV, float32(opts.FrameW)/float32(opts.FrameH), camPos)

	r, err := renderer.New(dev, camera, settings, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	s := &interactiveSession{
		window:   dev.Window(),
		camera:   camera,
		settings: settings,
		r:        r,
	}
	dev.OnResize(s.onResize)
	s.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	s.window.SetKeyCallback(s.onKeyEvent)
	s.window.SetMouseButtonCallback(s.onMouseEvent)
	s.window.SetCursorPosCallback(s.onCursorPosEvent)

	logger.Noticef("rendering on %s; WASD/arrows move, drag to look around, [ ] bounces, - = rays, Tab stats, Esc quits", dev.Name())
	return s.run()
}

// Pump frames until the window is closed.
func (s *interactiveSession) run() error {
	lastFrame := time.Now()
	lastTitle := lastFrame
	var framesSinceTitle int

	for !s.window.ShouldClose() {
		glfw.PollEvents()

		now := time.Now()
		s.camera.Advance(now.Sub(lastFrame))
		lastFrame = now

		if err := s.r.RenderFrame(); err != nil {
			return err
		}

		s.window.SwapBuffers()
		framesSinceTitle++

		if elapsed := now.Sub(lastTitle); elapsed >= titleRefreshInterval {
			fps := float64(framesSinceTitle) / elapsed.Seconds()
			s.window.SetTitle(fmt.Sprintf("%s - %.1f fps - %d frames accumulated", windowTitle, fps, s.r.AccumulatedFrames()))
			lastTitle, framesSinceTitle = now, 0
		}
	}
	return nil
}

func (s *interactiveSession) onResize(w, h uint32) {
	s.camera.SetAspect(float32(w) / float32(h))
	if err := s.r.Resize(w, h); err != nil {
		logger.Errorf("resize to %dx%d failed: %v", w, h, err)
	}
}

func (s *interactiveSession) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Repeat {
		return
	}

	held := action == glfw.Press
	switch key {
	case glfw.KeyW, glfw.KeyUp:
		s.input.Forward = held
	case glfw.KeyS, glfw.KeyDown:
		s.input.Backward = held
	case glfw.KeyA, glfw.KeyLeft:
		s.input.Left = held
	case glfw.KeyD, glfw.KeyRight:
		s.input.Right = held
	case glfw.KeyE, glfw.KeySpace:
		s.input.Up = held
	case glfw.KeyQ, glfw.KeyLeftControl:
		s.input.Down = held
	case glfw.KeyLeftShift, glfw.KeyRightShift:
		s.input.Fast = held
	default:
		if held {
			s.onKeyPress(key)
		}
		return
	}

	s.camera.SetInput(s.input)
}

// Handle keys that trigger an action instead of tracking held state.
func (s *interactiveSession) onKeyPress(key glfw.Key) {
	switch key {
	case glfw.KeyEscape:
		s.window.SetShouldClose(true)
	case glfw.KeyLeftBracket:
		s.settings.AdjustBounces(-1)
		logger.Noticef("max bounce count: %d", s.settings.Bounces)
	case glfw.KeyRightBracket:
		s.settings.AdjustBounces(1)
		logger.Noticef("max bounce count: %d", s.settings.Bounces)
	case glfw.KeyMinus:
		s.settings.AdjustRays(-1)
		logger.Noticef("rays per pixel: %d", s.settings.Rays)
	case glfw.KeyEqual:
		s.settings.AdjustRays(1)
		logger.Noticef("rays per pixel: %d", s.settings.Rays)
	case glfw.KeyTab:
		logger.Noticef("camera %s", s.camera)
		displayFrameStats(s.r.Stats())
	}
}

func (s *interactiveSession) onMouseEvent(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}

	if action == glfw.Press {
		xPos, yPos := w.GetCursorPos()
		s.lastCursorPos = mgl32.Vec2{float32(xPos), float32(yPos)}
		s.mousePressed = true
	} else {
		s.mousePressed = false
	}
}

func (s *interactiveSession) onCursorPosEvent(w *glfw.Window, xPos, yPos float64) {
	if !s.mousePressed {
		return
	}

	// Calculate delta movement and apply mouse sensitivity
	newPos := mgl32.Vec2{float32(xPos), float32(yPos)}
	delta := newPos.Sub(s.lastCursorPos)
	s.lastCursorPos = newPos

	s.camera.Rotate(delta[0]*mouseSensitivityX, -delta[1]*mouseSensitivityY)
}
