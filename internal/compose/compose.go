// Package compose flattens layered PNG trait images into a single image.
package compose

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoLayers indicates Composite was called with an empty path list.
var ErrNoLayers = errors.New("no layers to composite")

// Compositor renders an ordered list of trait paths into an output file.
type Compositor interface {
	Composite(paths []string, out string) error
}

// PNG composites PNG files found under Root. The first path is the opaque
// background; every later .png path is alpha-composited over it at the
// origin. The result is a pure function of the inputs, which duplicate
// removal relies on.
type PNG struct {
	Root string
}

// Composite decodes the layers, stacks them and writes out atomically.
func (c PNG) Composite(paths []string, out string) error {
	img, err := c.Flatten(paths)
	if err != nil {
		return err
	}
	return writePNG(out, img)
}

// Flatten stacks the layers in memory.
func (c PNG) Flatten(paths []string) (*image.NRGBA, error) {
	if len(paths) == 0 {
		return nil, ErrNoLayers
	}

	bg, err := decode(filepath.Join(c.Root, paths[0]))
	if err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, bg.Bounds().Dx(), bg.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), bg, bg.Bounds().Min, draw.Src)

	for _, p := range paths[1:] {
		if !strings.EqualFold(filepath.Ext(p), ".png") {
			continue
		}
		layer, err := decode(filepath.Join(c.Root, p))
		if err != nil {
			return nil, err
		}
		draw.Draw(dst, dst.Bounds(), layer, layer.Bounds().Min, draw.Over)
	}
	return dst, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("compose: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("compose: decode %s: %w", path, err)
	}
	return img, nil
}

// writePNG encodes into a temp file next to path and renames it into place,
// so an interrupted write never leaves a truncated artifact behind.
func writePNG(path string, img image.Image) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("compose: create %s: %w", tmp, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("compose: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("compose: close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("compose: rename %s: %w", path, err)
	}
	return nil
}
