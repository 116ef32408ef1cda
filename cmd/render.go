package cmd

import (
	"errors"
	"time"

	"github.com/achilleasa/lumen/device/software"
	"github.com/achilleasa/lumen/renderer"
	"github.com/achilleasa/lumen/scene"
	"github.com/urfave/cli"
)

// Render a fixed number of frames with the software device and write the
// presented image to a file.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts, settings, err := parseRenderOptions(ctx)
	if err != nil {
		return err
	}

	numFrames := ctx.Int("frames")
	if numFrames < 1 {
		return errors.New("at least one frame must be rendered")
	}

	imgFile := ctx.String("out")
	if _, err = encoderFor(imgFile); err != nil {
		return err
	}

	camPos, err := parseVec3(ctx.String("camera-pos"))
	if err != nil {
		return err
	}
	camera := scene.NewCamera(cameraFOV, float32(opts.FrameW)/float32(opts.FrameH), camPos)

	dev := software.New(opts.FrameW, opts.FrameH)
	if workers := ctx.Int("workers"); workers > 0 {
		dev.SetWorkers(workers)
	}
	defer dev.Close()

	r, err := renderer.New(dev, camera, settings, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Noticef("rendering %d frame(s) at %dx%d (bounces: %d, rays: %d)", numFrames, opts.FrameW, opts.FrameH, settings.Bounces, settings.Rays)
	if err = renderFrames(r, numFrames); err != nil {
		return err
	}

	start := time.Now()
	if err = writeImage(imgFile, dev.DisplayImage()); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1000000)

	return nil
}

// Render numFrames frames back to back and report the last frame's stats.
func renderFrames(r renderer.Renderer, numFrames int) error {
	start := time.Now()
	for frame := 0; frame < numFrames; frame++ {
		if err := r.RenderFrame(); err != nil {
			return err
		}
	}
	logger.Noticef("rendered %d frame(s) in %d ms", numFrames, time.Since(start).Nanoseconds()/1000000)

	displayFrameStats(r.Stats())
	return nil
}
