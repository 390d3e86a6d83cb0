package compose

import (
	"fmt"
	"strings"
	"sync"
)

// MissingLayers groups every layer file one asset could not load.
type MissingLayers struct {
	ElementType string   `json:"element_type"`
	AssetID     string   `json:"asset_id"`
	Source      string   `json:"source"` // base image path of the asset
	Paths       []string `json:"paths"`
}

// String renders the entry the way the build summary prints it:
// the asset's base image followed by one indented line per missing path.
func (m MissingLayers) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:", m.Source)
	for _, p := range m.Paths {
		fmt.Fprintf(&b, "\n\t- %s", p)
	}
	return b.String()
}

// Diagnostics collects per-asset problems reported by concurrent compositions.
//
// Each collection has its own lock, so recording a skipped asset never waits on
// a missing-layer report. Entries are appended whole; their order follows task
// completion and carries no meaning.
type Diagnostics struct {
	skippedMu sync.Mutex
	skipped   []string

	missingMu sync.Mutex
	missing   []MissingLayers
}

// NewDiagnostics returns an empty diagnostics log.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// AddSkipped records an asset whose base image could not be opened.
func (d *Diagnostics) AddSkipped(assetID string) {
	d.skippedMu.Lock()
	d.skipped = append(d.skipped, assetID)
	d.skippedMu.Unlock()
}

// AddMissing records the missing layers of one asset. Entries with no paths
// are ignored.
func (d *Diagnostics) AddMissing(m MissingLayers) {
	if len(m.Paths) == 0 {
		return
	}
	m.Paths = append([]string(nil), m.Paths...)

	d.missingMu.Lock()
	d.missing = append(d.missing, m)
	d.missingMu.Unlock()
}

// Skipped returns a copy of the skipped asset ids.
func (d *Diagnostics) Skipped() []string {
	d.skippedMu.Lock()
	defer d.skippedMu.Unlock()
	return append([]string(nil), d.skipped...)
}

// Missing returns a copy of the missing-layer entries.
func (d *Diagnostics) Missing() []MissingLayers {
	d.missingMu.Lock()
	defer d.missingMu.Unlock()
	out := make([]MissingLayers, len(d.missing))
	for i, m := range d.missing {
		m.Paths = append([]string(nil), m.Paths...)
		out[i] = m
	}
	return out
}

// Empty reports whether nothing has been recorded.
func (d *Diagnostics) Empty() bool {
	d.skippedMu.Lock()
	skipped := len(d.skipped)
	d.skippedMu.Unlock()

	d.missingMu.Lock()
	missing := len(d.missing)
	d.missingMu.Unlock()

	return skipped == 0 && missing == 0
}
