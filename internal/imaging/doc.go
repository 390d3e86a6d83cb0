// Package imaging provides the pixel-level operations icon composition is built on.
//
// This package implements mask recoloring, straight-alpha compositing onto a
// canvas, image loading and saving, and the color inspection helpers used by the
// MCP tools. All operations work with standard Go image.Image types and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Pixel Representation
//
// Composition happens on *image.NRGBA, i.e. straight (non-premultiplied) alpha
// with 8 bits per channel. Grayscale masks are converted to GrayAlpha, two bytes
// per pixel, before tinting. Luma uses the Rec. 709 weights on straight
// color values, so a transparent pixel of a decoded PNG keeps its gray value.
//
// # Tinting
//
// A Tinter maps each mask pixel (gray, alpha) to floor(gray*tint/255) per
// channel with alpha untouched. In threshold mode, pixels darker than the
// threshold keep their gray value so outlines stay neutral:
//
//	t := imaging.DefaultTinter() // threshold 37
//	red, err := t.TintHex(mask, "#FF0000")
//
// # Thread Safety
//
// The ImageCache and FileStore types are safe for concurrent use. Images handed
// out by a cache are shared and must be treated as read-only; Colorize never
// writes to its mask. A Canvas belongs to one goroutine.
//
// # Color Representation
//
// Colors are returned in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGBA: 8-bit straight-alpha components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Hex colors that are not exactly six hex digits
//   - Coordinates outside image bounds
//   - File I/O errors during image loading
//   - Encoding errors during image output
package imaging
