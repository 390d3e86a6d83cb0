package imaging

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

// createMask builds a w x h GrayAlpha filled with the given gray and alpha.
func createMask(w, h int, gray, alpha uint8) *GrayAlpha {
	m := NewGrayAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetGrayAlpha(x, y, gray, alpha)
		}
	}
	return m
}

func TestParseTintColor(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want TintColor
	}{
		{"with hash", "#FF0000", TintColor{255, 0, 0}},
		{"without hash", "00FF00", TintColor{0, 255, 0}},
		{"lower case", "#0a0b0c", TintColor{10, 11, 12}},
		{"mixed case", "AbCdEf", TintColor{0xAB, 0xCD, 0xEF}},
		{"black", "000000", TintColor{0, 0, 0}},
		{"white", "#ffffff", TintColor{255, 255, 255}},
		{"repeated hashes", "###00FF00", TintColor{0, 255, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTintColor(tt.hex)
			if err != nil {
				t.Fatalf("ParseTintColor(%q) failed: %v", tt.hex, err)
			}
			if got != tt.want {
				t.Errorf("ParseTintColor(%q) = %+v, want %+v", tt.hex, got, tt.want)
			}
		})
	}
}

func TestParseTintColor_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"#",
		"FFF",
		"#FFFF",
		"FF00000",
		"#FF00000",
		"GG0000",
		"#12345Z",
		"12 456",
		"+12345",
		"-12345",
		"0x1234",
		"FF_000",
		"éé1234",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTintColor(in)
			if err == nil {
				t.Fatalf("ParseTintColor(%q) should fail", in)
			}
			if !errors.Is(err, ErrInvalidHexColor) {
				t.Errorf("error %v does not wrap ErrInvalidHexColor", err)
			}
			// Deterministic: the same input fails the same way.
			_, err2 := ParseTintColor(in)
			if err2 == nil || err2.Error() != err.Error() {
				t.Errorf("second parse gave %v, first gave %v", err2, err)
			}
		})
	}
}

func TestTintColor_HexRoundTrip(t *testing.T) {
	// Walk a spread of values on every channel, in both spellings.
	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 51 {
			for b := 0; b < 256; b += 85 {
				want := TintColor{uint8(r), uint8(g), uint8(b)}
				hex := want.Hex()

				for _, in := range []string{hex, strings.TrimPrefix(hex, "#"), strings.ToLower(hex)} {
					got, err := ParseTintColor(in)
					if err != nil {
						t.Fatalf("ParseTintColor(%q) failed: %v", in, err)
					}
					if got != want {
						t.Fatalf("round trip %q: got %+v, want %+v", in, got, want)
					}
				}
			}
		}
	}
}

func TestTintColor_Hex(t *testing.T) {
	if got := (TintColor{255, 128, 1}).Hex(); got != "#FF8001" {
		t.Errorf("Hex: got %s, want #FF8001", got)
	}
	if got := (TintColor{0, 0, 0}).String(); got != "#000000" {
		t.Errorf("String: got %s, want #000000", got)
	}
}

func TestTintColor_Colorful(t *testing.T) {
	c := TintColor{255, 0, 0}.Colorful()
	if c.Hex() != "#ff0000" {
		t.Errorf("Colorful().Hex(): got %s, want #ff0000", c.Hex())
	}
}

func TestTinter_TintPixel_Formula(t *testing.T) {
	tints := []TintColor{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{12, 200, 99},
		{1, 254, 128},
	}
	plain := PlainTinter()

	for _, tint := range tints {
		for gray := 0; gray < 256; gray++ {
			for _, alpha := range []uint8{0, 1, 128, 255} {
				got := plain.TintPixel(uint8(gray), alpha, tint)

				if got.A != alpha {
					t.Fatalf("gray=%d tint=%v: alpha %d, want %d", gray, tint, got.A, alpha)
				}
				wantR := uint8(gray * int(tint.R) / 255)
				wantG := uint8(gray * int(tint.G) / 255)
				wantB := uint8(gray * int(tint.B) / 255)
				if got.R != wantR || got.G != wantG || got.B != wantB {
					t.Fatalf("gray=%d tint=%v: got (%d,%d,%d), want (%d,%d,%d)",
						gray, tint, got.R, got.G, got.B, wantR, wantG, wantB)
				}
				if got.R > tint.R || got.G > tint.G || got.B > tint.B {
					t.Fatalf("gray=%d tint=%v: channel above tint: %+v", gray, tint, got)
				}
			}
		}
	}
}

func TestTinter_TintPixel_Threshold(t *testing.T) {
	tinter := DefaultTinter()
	if tinter.Threshold != 37 || !tinter.UseThreshold {
		t.Fatalf("DefaultTinter: got %+v, want threshold 37 enabled", tinter)
	}

	tint := TintColor{255, 0, 0}
	for gray := 0; gray < 256; gray++ {
		got := tinter.TintPixel(uint8(gray), 200, tint)
		if gray < 37 {
			want := color.NRGBA{uint8(gray), uint8(gray), uint8(gray), 200}
			if got != want {
				t.Fatalf("gray=%d below threshold: got %+v, want %+v", gray, got, want)
			}
			continue
		}
		want := PlainTinter().TintPixel(uint8(gray), 200, tint)
		if got != want {
			t.Fatalf("gray=%d above threshold: got %+v, want %+v", gray, got, want)
		}
	}
}

func TestTinter_TintPixel_ThresholdDisabled(t *testing.T) {
	// A threshold value is ignored unless the mode is enabled.
	tinter := Tinter{Threshold: 200}
	got := tinter.TintPixel(10, 255, TintColor{0, 0, 0})
	if got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("got %+v, want tinted black", got)
	}
}

func TestTinter_Colorize(t *testing.T) {
	mask := NewGrayAlpha(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			mask.SetGrayAlpha(x, y, uint8(x*60+y*10), uint8(255-x*50))
		}
	}
	tint := TintColor{200, 100, 50}

	for _, tinter := range []Tinter{PlainTinter(), DefaultTinter()} {
		out := tinter.Colorize(mask, tint)
		if out.Bounds() != mask.Bounds() {
			t.Fatalf("bounds: got %v, want %v", out.Bounds(), mask.Bounds())
		}
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				g, a := mask.GrayAlphaAt(x, y)
				want := tinter.TintPixel(g, a, tint)
				if got := out.NRGBAAt(x, y); got != want {
					t.Errorf("%+v at (%d,%d): got %+v, want %+v", tinter, x, y, got, want)
				}
			}
		}
	}
}

func TestTinter_Colorize_Offset(t *testing.T) {
	mask := NewGrayAlpha(image.Rect(5, 5, 7, 7))
	mask.SetGrayAlpha(6, 6, 255, 255)

	out := PlainTinter().Colorize(mask, TintColor{0, 255, 0})
	if out.Bounds() != mask.Bounds() {
		t.Fatalf("bounds: got %v, want %v", out.Bounds(), mask.Bounds())
	}
	if got := out.NRGBAAt(6, 6); got != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("got %+v, want opaque green", got)
	}
	if got := out.NRGBAAt(5, 5); got.A != 0 {
		t.Errorf("got %+v, want transparent", got)
	}
}

func TestTinter_TintHex(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 128})
		}
	}

	out, err := PlainTinter().TintHex(img, "#FF0000")
	if err != nil {
		t.Fatalf("TintHex failed: %v", err)
	}
	if got := out.NRGBAAt(1, 1); got != (color.NRGBA{255, 0, 0, 128}) {
		t.Errorf("got %+v, want (255,0,0,128)", got)
	}

	if _, err := PlainTinter().TintHex(img, "red"); !errors.Is(err, ErrInvalidHexColor) {
		t.Errorf("TintHex with bad hex: got %v, want ErrInvalidHexColor", err)
	}
}

func TestToGrayAlpha(t *testing.T) {
	tests := []struct {
		name      string
		c         color.NRGBA
		wantGray  uint8
		wantAlpha uint8
	}{
		{"opaque gray", color.NRGBA{100, 100, 100, 255}, 100, 255},
		{"translucent gray keeps value", color.NRGBA{200, 200, 200, 64}, 200, 64},
		{"white", color.NRGBA{255, 255, 255, 255}, 255, 255},
		{"transparent", color.NRGBA{0, 0, 0, 0}, 0, 0},
		{"pure red", color.NRGBA{255, 0, 0, 255}, 54, 255},
		{"pure green", color.NRGBA{0, 255, 0, 255}, 182, 255},
		{"pure blue", color.NRGBA{0, 0, 255, 255}, 18, 255},
		{"brown rounds down", color.NRGBA{120, 60, 30, 255}, 70, 255},
		{"translucent color", color.NRGBA{255, 0, 0, 100}, 54, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
			img.SetNRGBA(0, 0, tt.c)

			ga := ToGrayAlpha(img)
			g, a := ga.GrayAlphaAt(0, 0)
			if g != tt.wantGray || a != tt.wantAlpha {
				t.Errorf("got (%d,%d), want (%d,%d)", g, a, tt.wantGray, tt.wantAlpha)
			}
		})
	}
}

func TestTintHex_ColoredMaskUsesLuma(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 255, 255})

	out, err := DefaultTinter().TintHex(img, "#FFFFFF")
	if err != nil {
		t.Fatalf("TintHex failed: %v", err)
	}
	// Red maps to gray 54, above the threshold, so white tint keeps it.
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{54, 54, 54, 255}) {
		t.Errorf("red pixel: got %+v, want (54,54,54,255)", got)
	}
	// Blue maps to gray 18, below the threshold, so it passes through as gray.
	if got := out.NRGBAAt(1, 0); got != (color.NRGBA{18, 18, 18, 255}) {
		t.Errorf("blue pixel: got %+v, want (18,18,18,255)", got)
	}

	out, err = DefaultTinter().TintHex(img, "#FF8000")
	if err != nil {
		t.Fatalf("TintHex failed: %v", err)
	}
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{54, 27, 0, 255}) {
		t.Errorf("red pixel tinted orange: got %+v, want (54,27,0,255)", got)
	}
}

func TestToGrayAlpha_GrayImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.SetGray(1, 0, color.Gray{Y: 77})

	ga := ToGrayAlpha(img)
	if g, a := ga.GrayAlphaAt(1, 0); g != 77 || a != 255 {
		t.Errorf("got (%d,%d), want (77,255)", g, a)
	}
}

func TestToGrayAlpha_Identity(t *testing.T) {
	m := createMask(2, 2, 10, 20)
	if ToGrayAlpha(m) != m {
		t.Error("ToGrayAlpha should return a GrayAlpha input unchanged")
	}
}

func TestGrayAlpha_OutOfBounds(t *testing.T) {
	m := createMask(2, 2, 10, 20)
	m.SetGrayAlpha(5, 5, 1, 1)
	if g, a := m.GrayAlphaAt(5, 5); g != 0 || a != 0 {
		t.Errorf("out of bounds read: got (%d,%d), want (0,0)", g, a)
	}
	if c := m.At(0, 0).(color.NRGBA); c != (color.NRGBA{10, 10, 10, 20}) {
		t.Errorf("At: got %+v", c)
	}
}
