// Package convert decodes legacy raster image formats and re-encodes them as
// PNG. Decoding goes through the stdlib image registry: gif/jpeg/png via
// blank imports, bmp via golang.org/x/image, pcx via the decoder in this
// package. A ".img" file carrying any of those magics decodes too, since the
// registry sniffs content rather than trusting the extension.
package convert

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
)

// Legacy source extensions (lowercase, dot-free) eligible for conversion.
var legacyExts = map[string]bool{
	"pcx": true,
	"bmp": true,
	"img": true,
	"gif": true,
}

// IsLegacy reports whether ext names a convertible legacy raster format.
func IsLegacy(ext string) bool { return legacyExts[ext] }

// Probe returns the pixel dimensions of an image file without decoding pixel
// data. An error means the dimensions are unavailable (non-image or corrupt
// file); callers treat that as a soft failure.
func Probe(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// ToPNG decodes the image at path, normalizes its color mode, writes a
// sibling .png file, deletes the original, and returns the new path. Sources
// with transparency (an alpha channel or a palette transparency entry) keep
// their alpha; opaque sources are flattened to plain RGB. On any error the
// original file is left untouched.
func ToPNG(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	img, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	outPath, out, err := createPNG(strings.TrimSuffix(path, filepath.Ext(path)))
	if err != nil {
		return "", err
	}
	if err := png.Encode(out, normalize(img)); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", fmt.Errorf("encode %s: %w", filepath.Base(outPath), err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return "", err
	}

	// The converted file supersedes the original. outPath is always distinct
	// from path: createPNG never opens an existing file.
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("remove original %s (decoded as %s): %w", filepath.Base(path), format, err)
	}
	return outPath, nil
}

// createPNG opens stem+".png" for writing without overwriting an existing
// file. An extracted sibling may legitimately own the plain name, so
// collisions fall back to the numeric suffix scheme relocation uses
// (stem_1.png, stem_2.png, …).
func createPNG(stem string) (string, *os.File, error) {
	outPath := stem + ".png"
	for n := 1; ; n++ {
		f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return outPath, f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", nil, err
		}
		outPath = fmt.Sprintf("%s_%d.png", stem, n)
	}
}

// normalize redraws the decoded image onto a standard canvas: NRGBA when the
// source has transparency, opaque RGBA otherwise (the PNG encoder emits plain
// RGB for fully opaque images).
func normalize(img image.Image) image.Image {
	b := img.Bounds()
	if isOpaque(img) {
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
		return dst
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// isOpaque reports whether the image is fully opaque. Stdlib image types
// implement Opaque() (for paletted images it inspects palette alpha); the
// pixel scan is the fallback for decoder-specific types that don't.
func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}
