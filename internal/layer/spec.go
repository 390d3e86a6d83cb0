// Package layer parses layer specifications and maps them to layer files.
//
// A layer spec names an overlay image inside a layer folder, optionally
// followed by '#' and a six digit hex color used to recolor a grayscale mask:
//
//	frame            -> <folder>/frame.png
//	frame#FF0000     -> <folder>/frame.png tinted red
//	gems/ruby#00FF00 -> <folder>/gems/ruby.png tinted green
//
// The values "" and "none" are placeholders meaning "no layer here". Callers
// skip them with IsSentinel before resolving anything.
package layer

import (
	"path/filepath"
	"strings"

	"github.com/ironsheep/icon-forge/internal/imaging"
)

// None is the explicit "no layer" placeholder.
const None = "none"

// IsSentinel reports whether raw is a placeholder that must be skipped.
func IsSentinel(raw string) bool {
	return raw == "" || raw == None
}

// Spec is a parsed layer specification.
type Spec struct {
	// Raw is the string the spec was parsed from.
	Raw string

	// Name is the layer file name without extension, relative to the layer folder.
	Name string

	// Tinted is set when the spec contained a '#'.
	Tinted bool

	// TintText is everything after the first '#'.
	TintText string

	// Tint is the parsed color. Nil when no tint was requested or when
	// TintText did not parse.
	Tint *imaging.TintColor

	// TintErr holds the parse failure of TintText, if any.
	TintErr error
}

// Parse splits raw on its first '#'. Later '#' characters belong to the
// color text, so "frame##FF0000" carries the color "#FF0000".
func Parse(raw string) Spec {
	name, text, found := strings.Cut(raw, "#")
	spec := Spec{Raw: raw, Name: name, Tinted: found, TintText: text}
	if !found {
		return spec
	}

	tint, err := imaging.ParseTintColor(text)
	if err != nil {
		spec.TintErr = err
		return spec
	}
	spec.Tint = &tint
	return spec
}

// Path returns the layer file for this spec under root. The ".png"
// extension is always appended.
func (s Spec) Path(root string) string {
	return filepath.Join(root, s.Name+".png")
}

// Resolve parses raw and maps it under root in one step.
func Resolve(raw, root string) (string, Spec) {
	spec := Parse(raw)
	return spec.Path(root), spec
}
