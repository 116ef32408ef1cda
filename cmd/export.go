package cmd

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type imageEncoder func(w io.Writer, im image.Image) error

var encoders = map[string]imageEncoder{
	".png":  png.Encode,
	".bmp":  bmp.Encode,
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
}

func encodeTIFF(w io.Writer, im image.Image) error {
	return tiff.Encode(w, im, &tiff.Options{Compression: tiff.Deflate})
}

// Select an encoder based on the file extension.
func encoderFor(path string) (imageEncoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	enc, found := encoders[ext]
	if !found {
		return nil, fmt.Errorf("unsupported image format %q; use one of .png, .bmp, .tiff", ext)
	}
	return enc, nil
}

// Write im to path using the encoder that matches its extension.
func writeImage(path string, im image.Image) error {
	enc, err := encoderFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err = enc(f, im); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
