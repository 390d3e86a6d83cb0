package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Canvas is the working raster of one composition.
//
// A canvas starts fully transparent and accumulates layers drawn over it in
// call order. It is not safe for concurrent use; each composition owns its own.
type Canvas struct {
	img *image.NRGBA
}

// NewCanvas creates a fully transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{img: imaging.New(width, height, color.NRGBA{})}
}

// NewCanvasFor creates a transparent canvas matching the size of img.
func NewCanvasFor(img image.Image) *Canvas {
	b := img.Bounds()
	return NewCanvas(b.Dx(), b.Dy())
}

// Overlay draws layer over the canvas with its top-left corner at the canvas
// origin, blending with the layer's alpha. Parts of layer outside the canvas
// are clipped.
func (c *Canvas) Overlay(layer image.Image) {
	c.img = imaging.Overlay(c.img, layer, image.Pt(0, 0), 1.0)
}

// Bounds returns the canvas bounds. Min is always the origin.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Image returns the current canvas content. The returned image is owned by the
// canvas until the composition is finished.
func (c *Canvas) Image() *image.NRGBA {
	return c.img
}
