// Package catalog keeps a layering file in step with the base images on disk.
//
// Scanning the source folder yields one key per image, "<category>/<path>"
// without the ".png" suffix. Keys already present in the layering file keep
// their layer lists; new keys get a single empty layer. The result is written
// back grouped by category so the file stays pleasant to edit by hand.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ironsheep/icon-forge/internal/paths"
)

// Result lists what an Update changed.
type Result struct {
	Added   []string
	Deleted []string
	Entries int
}

// Scan returns the flat keys of every file below the category folders of
// root, sorted. Files directly in root and hidden files are ignored.
func Scan(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read source folder: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		category := entry.Name()
		dir := filepath.Join(root, category)

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			keys = append(keys, category+"/"+paths.StripPNG(filepath.ToSlash(rel)))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
	}

	sort.Strings(keys)
	return keys, nil
}

// Flatten turns nested objects into "A/B/C" keys. Non-object values end a
// path. ".png" is stripped from keys and from string values.
func Flatten(nested map[string]any) map[string]any {
	flat := make(map[string]any)
	flattenInto(flat, nested, "")
	return flat
}

func flattenInto(flat map[string]any, obj map[string]any, prefix string) {
	for k, v := range obj {
		key := paths.StripPNG(k)
		if prefix != "" {
			key = prefix + "/" + key
		}
		if child, ok := v.(map[string]any); ok {
			flattenInto(flat, child, key)
			continue
		}
		flat[key] = stripValue(v)
	}
}

func stripValue(v any) any {
	switch t := v.(type) {
	case string:
		return paths.StripPNG(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = stripValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[paths.StripPNG(k)] = stripValue(item)
		}
		return out
	default:
		return v
	}
}

// Unflatten groups flat keys by their first path element:
// "items/weapons/sword" becomes {"items": {"weapons/sword": value}}.
func Unflatten(flat map[string]any) map[string]any {
	nested := make(map[string]any)
	for _, key := range sortedKeys(flat) {
		top, rest, found := strings.Cut(key, "/")
		if !found || rest == "" {
			nested[top] = flat[key]
			continue
		}
		group, ok := nested[top].(map[string]any)
		if !ok {
			group = make(map[string]any)
			nested[top] = group
		}
		group[rest] = flat[key]
	}
	return nested
}

// Merge combines scanned keys with a flattened existing layering. Known keys
// keep their value, new keys get [""] and are reported as added. Keys that
// are no longer on disk are dropped and reported as deleted.
func Merge(scanned []string, existing map[string]any) (merged map[string]any, added, deleted []string) {
	merged = make(map[string]any, len(scanned))
	seen := make(map[string]bool, len(scanned))

	for _, key := range scanned {
		seen[key] = true
		if v, ok := existing[key]; ok {
			merged[key] = v
			continue
		}
		merged[key] = []any{""}
		added = append(added, key)
	}

	for _, key := range sortedKeys(existing) {
		if !seen[key] {
			deleted = append(deleted, key)
		}
	}
	sort.Strings(added)
	return merged, added, deleted
}

// LoadExisting reads the layering file at path as generic JSON.
//
// A missing or blank file yields an empty object. A file that is not a JSON
// object is reported through logger and also treated as empty, so a broken
// file is rebuilt from the scan.
func LoadExisting(path string, logger *zap.Logger) (map[string]any, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read layering file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	var existing map[string]any
	if err := json.Unmarshal(data, &existing); err != nil || existing == nil {
		logger.Warn("layering file is invalid JSON, starting fresh", zap.String("path", path), zap.Error(err))
		return map[string]any{}, nil
	}
	return existing, nil
}

// Update scans sourceDir and rewrites the layering file at layeringPath.
func Update(sourceDir, layeringPath string, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scanned, err := Scan(sourceDir)
	if err != nil {
		return nil, err
	}
	existing, err := LoadExisting(layeringPath, logger)
	if err != nil {
		return nil, err
	}

	merged, added, deleted := Merge(scanned, Flatten(existing))
	data, err := Encode(Unflatten(merged))
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(layeringPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write layering file: %w", err)
	}

	logger.Info("layering file updated",
		zap.String("path", layeringPath),
		zap.Int("entries", len(merged)),
		zap.Int("added", len(added)),
		zap.Int("deleted", len(deleted)))

	return &Result{Added: added, Deleted: deleted, Entries: len(merged)}, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
