package cmd

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestWriteImage(t *testing.T) {
	dir := t.TempDir()

	im := image.NewRGBA(image.Rect(0, 0, 4, 3))
	im.SetRGBA(1, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	type spec struct {
		file   string
		decode func(f *os.File) (image.Image, error)
	}

	specs := []spec{
		{"frame.png", func(f *os.File) (image.Image, error) { return png.Decode(f) }},
		{"frame.BMP", func(f *os.File) (image.Image, error) { return bmp.Decode(f) }},
		{"frame.tiff", func(f *os.File) (image.Image, error) { return tiff.Decode(f) }},
	}

	for index, s := range specs {
		path := filepath.Join(dir, s.file)
		if err := writeImage(path, im); err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		decoded, err := s.decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("[spec %d] decoding %s: %v", index, s.file, err)
		}

		if decoded.Bounds() != im.Bounds() {
			t.Fatalf("[spec %d] expected bounds %v; got %v", index, im.Bounds(), decoded.Bounds())
		}
		r, g, b, _ := decoded.At(1, 2).RGBA()
		if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
			t.Fatalf("[spec %d] expected pixel (10, 20, 30); got (%d, %d, %d)", index, r>>8, g>>8, b>>8)
		}
	}

	if err := writeImage(filepath.Join(dir, "frame.jpg"), im); err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
}
