package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
)

// ExportPNG writes the canvas as a PNG with an opaque white background
// composited beneath the drawing layer. Erased regions are transparent in
// the layer itself and must not end up transparent in the exported file.
func (c *Canvas) ExportPNG(w io.Writer) error {
	out := image.NewRGBA(c.img.Rect)
	draw.Draw(out, out.Rect, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Rect, c.img, c.img.Rect.Min, draw.Over)

	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
