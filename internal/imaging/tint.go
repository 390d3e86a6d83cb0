package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultTintThreshold is the gray level below which threshold-mode tinting
// leaves mask pixels untouched. Outlines and drop shadows in the masks sit
// under this value.
const DefaultTintThreshold = 37

// ErrInvalidHexColor is returned when a tint string is not exactly six hex digits.
var ErrInvalidHexColor = errors.New("invalid hex color")

// TintColor is the target color of a mask recolor, one 8-bit value per channel.
type TintColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ParseTintColor parses a color written as "RRGGBB" or "#RRGGBB".
//
// Any run of leading '#' is dropped, then exactly six hex digits must remain. Any other
// length, or any non-hex character, yields an error wrapping ErrInvalidHexColor.
// Upper and lower case digits are both accepted.
func ParseTintColor(hex string) (TintColor, error) {
	digits := strings.TrimLeft(hex, "#")
	if len(digits) != 6 {
		return TintColor{}, fmt.Errorf("%w: %q must be 6 characters long", ErrInvalidHexColor, hex)
	}

	val, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return TintColor{}, fmt.Errorf("%w: %q", ErrInvalidHexColor, hex)
	}

	return TintColor{
		R: uint8(val >> 16),
		G: uint8(val >> 8),
		B: uint8(val),
	}, nil
}

// Hex formats the color as "#RRGGBB" with upper case digits.
func (c TintColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c TintColor) String() string {
	return c.Hex()
}

// Colorful returns the color in go-colorful form, for HSL or Lab conversions.
func (c TintColor) Colorful() colorful.Color {
	col, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return col
}

// Tinter recolors grayscale masks.
//
// Two modes exist:
//   - Plain: every pixel is scaled toward the tint.
//   - Threshold: pixels darker than Threshold keep their gray value, so outlines
//     and shadows drawn in near-black stay neutral.
//
// The zero value is a plain tinter.
type Tinter struct {
	// Threshold is the gray value under which pixels bypass tinting.
	// Only consulted when UseThreshold is set.
	Threshold uint8

	// UseThreshold enables threshold mode.
	UseThreshold bool
}

// DefaultTinter returns a threshold-mode tinter using DefaultTintThreshold.
func DefaultTinter() Tinter {
	return Tinter{Threshold: DefaultTintThreshold, UseThreshold: true}
}

// PlainTinter returns a tinter that scales every pixel.
func PlainTinter() Tinter {
	return Tinter{}
}

// TintPixel computes one output pixel from a gray value, its alpha and the tint.
//
// Each channel is floor(gray*tint/255). Alpha is passed through unchanged. In
// threshold mode a gray below the threshold returns (gray, gray, gray, alpha).
func (t Tinter) TintPixel(gray, alpha uint8, tint TintColor) color.NRGBA {
	if t.UseThreshold && gray < t.Threshold {
		return color.NRGBA{R: gray, G: gray, B: gray, A: alpha}
	}
	g := uint16(gray)
	return color.NRGBA{
		R: uint8(g * uint16(tint.R) / 255),
		G: uint8(g * uint16(tint.G) / 255),
		B: uint8(g * uint16(tint.B) / 255),
		A: alpha,
	}
}

// Colorize converts a gray+alpha mask into a straight-alpha RGBA image tinted
// toward tint.
//
// The output has the same bounds as the mask. Rows are processed concurrently;
// the transformation is per pixel so the result does not depend on scheduling.
func (t Tinter) Colorize(mask *GrayAlpha, tint TintColor) *image.NRGBA {
	bounds := mask.Bounds()
	dst := image.NewNRGBA(bounds)
	width := bounds.Dx()

	parallel.Line(bounds.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			src := mask.Pix[y*mask.Stride : y*mask.Stride+width*2]
			out := dst.Pix[y*dst.Stride : y*dst.Stride+width*4]
			for x := 0; x < width; x++ {
				c := t.TintPixel(src[x*2], src[x*2+1], tint)
				out[x*4+0] = c.R
				out[x*4+1] = c.G
				out[x*4+2] = c.B
				out[x*4+3] = c.A
			}
		}
	})

	return dst
}

// TintHex parses hex and colorizes img with it.
//
// img is converted to its gray+alpha representation first. When hex does not
// parse, no tinting is attempted and the error is returned.
func (t Tinter) TintHex(img image.Image, hex string) (*image.NRGBA, error) {
	tint, err := ParseTintColor(hex)
	if err != nil {
		return nil, err
	}
	return t.Colorize(ToGrayAlpha(img), tint), nil
}
