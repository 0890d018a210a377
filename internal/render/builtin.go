package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/Mavwarf/genicons/internal/paths"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Builtin rasterizes SVG in-process with oksvg. It needs no external tools.
type Builtin struct{}

// Render reads inputPath, rasterizes it to width×height and writes the PNG
// to outputPath atomically.
func (Builtin) Render(inputPath, outputPath string, width, height int) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	img, err := Rasterize(f, width, height)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := paths.AtomicWrite(outputPath, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	return nil
}

// Rasterize draws the SVG read from r onto a transparent width×height
// canvas. Content the rasterizer cannot draw is an error. The drawing keeps its aspect ratio and is centered, so the canvas
// size never depends on the SVG's own dimensions.
func Rasterize(r io.Reader, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}

	// Unsupported elements such as <text> fail the parse.
	icon, err := oksvg.ReadIconStream(r, oksvg.StrictErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("parse svg: missing viewBox or width/height")
	}

	scale := min(float64(width)/w, float64(height)/h)
	outW, outH := w*scale, h*scale
	icon.SetTarget((float64(width)-outW)/2, (float64(height)-outH)/2, outW, outH)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}
