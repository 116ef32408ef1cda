package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/lumen/cmd"
	"github.com/achilleasa/lumen/renderer"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "lumen"
	app.Usage = "progressive path tracing with temporal accumulation"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.BoolFlag{
			Name:   "trace-frames",
			Usage:  "log per-frame renderer activity (requires -vv)",
			EnvVar: "LUMEN_TRACE_FRAMES",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "list-programs",
			Usage:  "list the programs provided by the software device",
			Action: cmd.ListPrograms,
		},
		{
			Name:   "render",
			Usage:  "render the built-in scene",
			Action: nil,
			Subcommands: []cli.Command{
				{
					Name:  "frame",
					Usage: "render frames with the software device and save the result",
					Description: `
Render a number of frames from a fixed camera position using the CPU device.
Each frame is accumulated into the previous ones so the noise in the output
image decreases with the number of rendered frames.

The output format is selected by the file extension (.png, .bmp or .tiff).`,
					Flags: append(renderFlags(),
						cli.IntFlag{
							Name:   "frames, f",
							Value:  16,
							Usage:  "number of frames to accumulate",
							EnvVar: "LUMEN_FRAMES",
						},
						cli.IntFlag{
							Name:   "workers",
							Usage:  "number of worker goroutines (0 = one per CPU)",
							EnvVar: "LUMEN_WORKERS",
						},
						cli.StringFlag{
							Name:   "out, o",
							Value:  "frame.png",
							Usage:  "image filename for the rendered frame",
							EnvVar: "LUMEN_OUT",
						},
					),
					Action: cmd.RenderFrame,
				},
				{
					Name:  "interactive",
					Usage: "render an interactive view of the scene using OpenGL",
					Description: `
Open a window and progressively render the scene. Accumulation restarts
whenever the camera moves or the window is resized.`,
					Flags: append(renderFlags(),
						cli.StringFlag{
							Name:   "shader-dir",
							Usage:  "load program sources (<program>.frag) from this directory",
							EnvVar: "LUMEN_SHADER_DIR",
						},
						cli.BoolFlag{
							Name:   "vsync",
							Usage:  "synchronize frame presentation with the display refresh rate",
							EnvVar: "LUMEN_VSYNC",
						},
					),
					Action: cmd.RenderInteractive,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// Flags shared by all render commands.
func renderFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:   "width",
			Value:  512,
			Usage:  "frame width",
			EnvVar: "LUMEN_WIDTH",
		},
		cli.IntFlag{
			Name:   "height",
			Value:  384,
			Usage:  "frame height",
			EnvVar: "LUMEN_HEIGHT",
		},
		cli.IntFlag{
			Name:   "bounces",
			Value:  renderer.DefaultBounceCount,
			Usage:  fmt.Sprintf("max bounces per path [%d, %d]", renderer.MinBounceCount, renderer.MaxBounceCount),
			EnvVar: "LUMEN_BOUNCES",
		},
		cli.IntFlag{
			Name:   "rays",
			Value:  renderer.DefaultRaysPerPixel,
			Usage:  fmt.Sprintf("rays per pixel and frame [%d, %d]", renderer.MinRaysPerPixel, renderer.MaxRaysPerPixel),
			EnvVar: "LUMEN_RAYS",
		},
		cli.StringFlag{
			Name:   "color-format",
			Value:  "rgba16f",
			Usage:  "frame buffer color format (rgba8, rgba16f or rgba32f)",
			EnvVar: "LUMEN_COLOR_FORMAT",
		},
		cli.StringFlag{
			Name:   "camera-pos",
			Usage:  "initial camera position as x,y,z",
			EnvVar: "LUMEN_CAMERA_POS",
		},
	}
}
