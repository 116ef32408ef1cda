package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/achilleasa/lumen/device"
	"github.com/achilleasa/lumen/renderer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli"
)

// Default camera placement for the built-in scene.
var defaultCameraPos = mgl32.Vec3{0, 120, 600}

// Vertical field of view in degrees.
const cameraFOV float32 = 45.0

// Build the renderer options and settings from the command flags.
func parseRenderOptions(ctx *cli.Context) (renderer.Options, *renderer.Settings, error) {
	opts := renderer.DefaultOptions()

	width, height := ctx.Int("width"), ctx.Int("height")
	if width <= 0 || height <= 0 {
		return opts, nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	opts.FrameW, opts.FrameH = uint32(width), uint32(height)

	var err error
	if name := ctx.String("color-format"); name != "" {
		if opts.ColorFormat, err = device.ParseColorFormat(name); err != nil {
			return opts, nil, err
		}
	}

	settings := &renderer.Settings{
		Bounces: ctx.Int("bounces"),
		Rays:    ctx.Int("rays"),
	}
	if err = settings.Validate(); err != nil {
		return opts, nil, err
	}

	return opts, settings, nil
}

// Parse a comma-separated "x,y,z" camera position. An empty value selects
// the default position.
func parseVec3(value string) (mgl32.Vec3, error) {
	if value == "" {
		return defaultCameraPos, nil
	}

	tokens := strings.Split(value, ",")
	if len(tokens) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("invalid vector %q: expected x,y,z", value)
	}

	var out mgl32.Vec3
	for i, token := range tokens {
		v, err := strconv.ParseFloat(strings.TrimSpace(token), 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("invalid vector %q: %w", value, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}
