package cmd

import (
	"flag"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli"
)

func TestRenderFrame(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Int("width", 16, "")
	set.Int("height", 12, "")
	set.Int("bounces", 2, "")
	set.Int("rays", 1, "")
	set.String("color-format", "rgba32f", "")
	set.Int("frames", 3, "")
	set.Int("workers", 2, "")
	set.String("out", out, "")
	set.String("camera-pos", "0,100,400", "")

	if err := RenderFrame(cli.NewContext(cli.NewApp(), set, nil)); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	im, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if im.Bounds().Dx() != 16 || im.Bounds().Dy() != 12 {
		t.Fatalf("expected a 16x12 image; got %v", im.Bounds())
	}
}

func TestRenderFrameRejectsUnknownFormat(t *testing.T) {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Int("width", 16, "")
	set.Int("height", 12, "")
	set.Int("bounces", 2, "")
	set.Int("rays", 1, "")
	set.String("color-format", "rgba8", "")
	set.Int("frames", 1, "")
	set.String("out", filepath.Join(t.TempDir(), "frame.gif"), "")

	if err := RenderFrame(cli.NewContext(cli.NewApp(), set, nil)); err == nil {
		t.Fatal("expected an error for an unsupported output format")
	}
}
