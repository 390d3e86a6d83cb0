package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/ironsheep/icon-forge/internal/paths"
)

// Layering maps element type -> asset id -> ordered layer specs.
type Layering map[string]map[string][]string

// LoadLayering reads a layering file.
//
// A trailing ".png" is removed from asset ids and from layer names so files
// written by hand or by older tools resolve the same way.
func LoadLayering(path string) (Layering, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layering file: %w", err)
	}
	return ParseLayering(data)
}

// ParseLayering decodes layering JSON.
func ParseLayering(data []byte) (Layering, error) {
	var raw Layering
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse layering: %w", err)
	}
	return raw.Normalize(), nil
}

// Normalize returns a copy with ".png" suffixes stripped. When two keys of
// one element type collapse to the same id, the one without the suffix wins.
func (l Layering) Normalize() Layering {
	out := make(Layering, len(l))
	for elementType, assets := range l {
		norm := make(map[string][]string, len(assets))
		for _, id := range sortedKeys(assets) {
			key := paths.StripPNG(id)
			if _, exists := norm[key]; exists && key != id {
				continue
			}
			specs := make([]string, len(assets[id]))
			for i, s := range assets[id] {
				specs[i] = stripSpecPNG(s)
			}
			norm[key] = specs
		}
		out[elementType] = norm
	}
	return out
}

// Count returns the number of assets across all element types.
func (l Layering) Count() int {
	n := 0
	for _, assets := range l {
		n += len(assets)
	}
	return n
}

// ElementTypes returns the element types in sorted order.
func (l Layering) ElementTypes() []string {
	return sortedKeys(l)
}

// stripSpecPNG removes ".png" from the name part of a layer spec, keeping any tint.
func stripSpecPNG(spec string) string {
	for i := 0; i < len(spec); i++ {
		if spec[i] == '#' {
			return paths.StripPNG(spec[:i]) + spec[i:]
		}
	}
	return paths.StripPNG(spec)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
