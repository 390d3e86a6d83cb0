package catalog

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Encode renders a nested layering in the grouped layout:
//
//	{
//	  "items": {
//	    "bow": [""],
//
//	    "weapons/axe": ["frame#FF0000"],
//	    "weapons/sword": ["frame","glow"]
//	  },
//
//	  "skills": {
//	    "fire": [""]
//	  }
//	}
//
// Keys are sorted ignoring case. Top-level categories are separated by a blank
// line, and so are entries whose first sub-folder differs. Lists stay on one
// line. The output ends with a newline.
func Encode(nested map[string]any) ([]byte, error) {
	var b bytes.Buffer
	if err := encodeValue(&b, nested, 0, true); err != nil {
		return nil, err
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func encodeValue(b *bytes.Buffer, v any, level int, topLevel bool) error {
	switch t := v.(type) {
	case map[string]any:
		return encodeObject(b, t, level, topLevel)
	case []any:
		b.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := encodeScalar(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
		return nil
	default:
		return encodeScalar(b, v)
	}
}

func encodeObject(b *bytes.Buffer, obj map[string]any, level int, topLevel bool) error {
	if len(obj) == 0 {
		b.WriteString("{}")
		return nil
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		li, lj := strings.ToLower(keys[i]), strings.ToLower(keys[j])
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})

	indent := strings.Repeat("  ", level)
	b.WriteString("{\n")
	for i, k := range keys {
		if i > 0 {
			if topLevel || firstSegment(keys[i-1]) != firstSegment(k) {
				b.WriteByte('\n')
			}
		}
		b.WriteString(indent)
		b.WriteString("  ")
		if err := encodeScalar(b, k); err != nil {
			return err
		}
		b.WriteString(": ")
		if err := encodeValue(b, obj[k], level+1, false); err != nil {
			return err
		}
		if i < len(keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(indent)
	b.WriteByte('}')
	return nil
}

func encodeScalar(b *bytes.Buffer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	b.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	return nil
}

func firstSegment(key string) string {
	first, _, _ := strings.Cut(key, "/")
	return first
}
