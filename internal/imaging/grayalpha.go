package imaging

import (
	"image"
	"image/color"
)

// GrayAlpha is an 8-bit luma image with a straight alpha channel.
//
// Pix holds two bytes per pixel: gray then alpha. It is the representation
// masks are converted to before tinting.
type GrayAlpha struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewGrayAlpha returns a fully transparent black GrayAlpha image with bounds r.
func NewGrayAlpha(r image.Rectangle) *GrayAlpha {
	return &GrayAlpha{
		Pix:    make([]uint8, 2*r.Dx()*r.Dy()),
		Stride: 2 * r.Dx(),
		Rect:   r,
	}
}

// ColorModel implements image.Image. Pixels are reported as NRGBA.
func (p *GrayAlpha) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (p *GrayAlpha) Bounds() image.Rectangle { return p.Rect }

// At implements image.Image.
func (p *GrayAlpha) At(x, y int) color.Color {
	g, a := p.GrayAlphaAt(x, y)
	return color.NRGBA{R: g, G: g, B: g, A: a}
}

// GrayAlphaAt returns the gray and alpha values at (x, y). Points outside the
// bounds read as (0, 0).
func (p *GrayAlpha) GrayAlphaAt(x, y int) (gray, alpha uint8) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0, 0
	}
	i := p.PixOffset(x, y)
	return p.Pix[i], p.Pix[i+1]
}

// SetGrayAlpha sets the pixel at (x, y). Points outside the bounds are ignored.
func (p *GrayAlpha) SetGrayAlpha(x, y int, gray, alpha uint8) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i] = gray
	p.Pix[i+1] = alpha
}

// PixOffset returns the index of the first byte of pixel (x, y) in Pix.
func (p *GrayAlpha) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

// ToGrayAlpha converts any image into its gray+alpha representation.
//
// The gray value is the Rec. 709 luma of the un-premultiplied 8-bit channels,
// (2126*R + 7152*G + 722*B) / 10000 rounded down, so a pixel whose R, G and B
// are equal keeps that value regardless of its alpha. The result keeps the
// source bounds.
func ToGrayAlpha(img image.Image) *GrayAlpha {
	if ga, ok := img.(*GrayAlpha); ok {
		return ga
	}

	bounds := img.Bounds()
	dst := NewGrayAlpha(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			luma := (2126*uint32(c.R) + 7152*uint32(c.G) + 722*uint32(c.B)) / 10000
			dst.SetGrayAlpha(x, y, uint8(luma), c.A)
		}
	}
	return dst
}
