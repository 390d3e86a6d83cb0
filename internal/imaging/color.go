package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/cenkalti/dominantcolor"
)

// RGBAColor represents an RGBA color with 8-bit straight-alpha components.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGBA RGBAColor `json:"rgba"` // Straight-alpha components
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if coordinates are outside the image bounds.
//
// # Color Conversion
//
// The pixel is converted to non-premultiplied 8-bit components, so a
// half-transparent red composite reads as R=255, A=128 rather than R=128.
// The Hex format excludes alpha; use RGBA.A to get transparency information.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return &ColorResult{
		Hex:  TintColor{R: c.R, G: c.G, B: c.B}.Hex(),
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  toHSL(c.R, c.G, c.B),
	}, nil
}

// PaletteEntry is one dominant color of an image with its relative weight.
type PaletteEntry struct {
	Hex    string   `json:"hex"`    // "#RRGGBB"
	Weight float64  `json:"weight"` // Share of the sampled pixels (0-1)
	HSL    HSLColor `json:"hsl"`
}

// PaletteResult lists dominant colors, heaviest first.
type PaletteResult struct {
	Colors []PaletteEntry `json:"colors"`
}

// Palette extracts up to count dominant colors of img.
//
// Clustering is delegated to cenkalti/dominantcolor. It is mostly useful to
// check that a tint landed on a composed icon: the tint shows up as one of the
// heaviest entries.
func Palette(img image.Image, count int) (*PaletteResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	found := dominantcolor.FindWeight(img, count)
	colors := make([]PaletteEntry, 0, len(found))
	for _, c := range found {
		colors = append(colors, PaletteEntry{
			Hex:    TintColor{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B}.Hex(),
			Weight: c.Weight,
			HSL:    toHSL(c.RGBA.R, c.RGBA.G, c.RGBA.B),
		})
	}
	return &PaletteResult{Colors: colors}, nil
}

// toHSL converts 8-bit RGB values to rounded HSL via go-colorful.
func toHSL(r, g, b uint8) HSLColor {
	h, s, l := TintColor{R: r, G: g, B: b}.Colorful().Hsl()
	return HSLColor{
		H: int(h + 0.5),
		S: int(s*100 + 0.5),
		L: int(l*100 + 0.5),
	}
}
