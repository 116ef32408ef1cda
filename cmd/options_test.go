package cmd

import (
	"flag"
	"testing"

	"github.com/achilleasa/lumen/device"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli"
)

func newTestContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Int("width", 512, "")
	set.Int("height", 384, "")
	set.Int("bounces", 30, "")
	set.Int("rays", 10, "")
	set.String("color-format", "rgba16f", "")
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestParseRenderOptions(t *testing.T) {
	type spec struct {
		args      []string
		expErr    bool
		expW      uint32
		expH      uint32
		expFormat device.ColorFormat
		expRays   int
	}

	specs := []spec{
		{nil, false, 512, 384, device.ColorRGBA16F, 10},
		{[]string{"-width", "64", "-height", "32", "-color-format", "rgba32f", "-rays", "300"}, false, 64, 32, device.ColorRGBA32F, 300},
		{[]string{"-width", "0"}, true, 0, 0, 0, 0},
		{[]string{"-color-format", "rgb565"}, true, 0, 0, 0, 0},
		{[]string{"-bounces", "501"}, true, 0, 0, 0, 0},
		{[]string{"-rays", "0"}, true, 0, 0, 0, 0},
	}

	for index, s := range specs {
		opts, settings, err := parseRenderOptions(newTestContext(t, s.args...))
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error", index)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if opts.FrameW != s.expW || opts.FrameH != s.expH {
			t.Fatalf("[spec %d] expected frame size %dx%d; got %dx%d", index, s.expW, s.expH, opts.FrameW, opts.FrameH)
		}
		if opts.ColorFormat != s.expFormat {
			t.Fatalf("[spec %d] expected color format %s; got %s", index, s.expFormat, opts.ColorFormat)
		}
		if settings.RaysPerPixel() != s.expRays {
			t.Fatalf("[spec %d] expected %d rays per pixel; got %d", index, s.expRays, settings.RaysPerPixel())
		}
		if !opts.DiscardOnBind || opts.DepthFormat != device.Depth24Stencil8 {
			t.Fatalf("[spec %d] expected default surface options; got %+v", index, opts)
		}
	}
}

func TestParseVec3(t *testing.T) {
	type spec struct {
		in     string
		exp    mgl32.Vec3
		expErr bool
	}

	specs := []spec{
		{"", defaultCameraPos, false},
		{"1,2,3", mgl32.Vec3{1, 2, 3}, false},
		{" -1.5, 0 ,2e2", mgl32.Vec3{-1.5, 0, 200}, false},
		{"1,2", mgl32.Vec3{}, true},
		{"1,b,3", mgl32.Vec3{}, true},
	}

	for index, s := range specs {
		got, err := parseVec3(s.in)
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error", index)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if got != s.exp {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, got)
		}
	}
}
