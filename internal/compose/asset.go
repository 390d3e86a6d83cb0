package compose

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ironsheep/icon-forge/internal/imaging"
	"github.com/ironsheep/icon-forge/internal/paths"
)

// ErrAssetMissing is returned in a Result when the base image cannot be opened.
var ErrAssetMissing = errors.New("base image unavailable")

// Task is the unit of work of a batch: one asset and the layers drawn under it.
type Task struct {
	ElementType string   `json:"element_type"`
	AssetID     string   `json:"asset_id"`
	Layers      []string `json:"layers"`

	// LayerFolder is the folder layer specs resolve against. Empty disables
	// layer stacking for the task.
	LayerFolder string `json:"layer_folder,omitempty"`
}

// MissingPolicy selects what happens to layer files that cannot be opened.
type MissingPolicy int

const (
	// MissingAggregate records missing layers in the diagnostics, grouped per asset.
	MissingAggregate MissingPolicy = iota

	// MissingIgnore drops missing layers silently. Kept for old pipelines
	// that relied on it.
	MissingIgnore
)

// ParseMissingPolicy maps "aggregate" (or "") and "ignore" to a policy.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch s {
	case "", "aggregate":
		return MissingAggregate, nil
	case "ignore":
		return MissingIgnore, nil
	default:
		return MissingAggregate, fmt.Errorf("unknown missing layer policy %q", s)
	}
}

func (p MissingPolicy) String() string {
	if p == MissingIgnore {
		return "ignore"
	}
	return "aggregate"
}

// Status is the outcome of one composition.
type Status int

const (
	StatusWritten Status = iota
	StatusSkipped
	StatusSaveFailed
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusSkipped:
		return "skipped"
	case StatusSaveFailed:
		return "save_failed"
	default:
		return "unknown"
	}
}

// MarshalText lets Status appear by name in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result describes what one composition produced.
type Result struct {
	Task    Task     `json:"task"`
	Source  string   `json:"source"`
	Output  string   `json:"output,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Status  Status   `json:"status"`
	Err     error    `json:"-"`
}

// Compositor turns one Task into a finished icon.
//
// The base image is read from <SourceDir>/<element type>/<asset>.png and the
// result written to <OutputDir>/<last element of element type>/<asset>.png.
// Compositor holds no per-task state and may be shared by concurrent workers.
type Compositor struct {
	SourceDir string
	OutputDir string

	// Assets opens base images.
	Assets Source

	// Output saves finished icons.
	Output Sink

	Stacker *Stacker

	// Diagnostics receives skipped assets and missing layers. May be nil.
	Diagnostics *Diagnostics

	MissingPolicy MissingPolicy

	Logger *zap.Logger
}

// SourcePath returns the base image path of task.
func (c *Compositor) SourcePath(task Task) string {
	return paths.ForcePNG(filepath.Join(c.SourceDir, task.ElementType), task.AssetID)
}

// OutputPath returns where the icon of task is written.
func (c *Compositor) OutputPath(task Task) string {
	folder := filepath.Base(task.ElementType)
	if folder == "." || folder == string(filepath.Separator) {
		folder = "Unknown"
	}
	return paths.ForcePNG(filepath.Join(c.OutputDir, folder), task.AssetID)
}

// Compose builds and saves the icon of task.
//
// A base image that cannot be opened skips the task entirely: the asset id is
// recorded and nothing else is read or written. Otherwise the layers are
// stacked on a transparent canvas the size of the base image, the base image
// is drawn on top, and the result saved. Save failures are returned in the
// Result and never affect other tasks.
func (c *Compositor) Compose(task Task) Result {
	log := c.logger().With(zap.String("element_type", task.ElementType), zap.String("asset", task.AssetID))
	res := Result{Task: task, Source: c.SourcePath(task)}

	base, err := c.Assets.Open(res.Source)
	if err != nil {
		log.Warn("skipping asset: could not open base image", zap.String("path", res.Source), zap.Error(err))
		if c.Diagnostics != nil {
			c.Diagnostics.AddSkipped(task.AssetID)
		}
		res.Status = StatusSkipped
		res.Err = fmt.Errorf("%w: %s: %w", ErrAssetMissing, res.Source, err)
		return res
	}

	canvas := imaging.NewCanvasFor(base)

	if task.LayerFolder != "" && c.Stacker != nil {
		res.Missing = c.Stacker.Stack(canvas, task.Layers, task.LayerFolder)
		if len(res.Missing) > 0 && c.MissingPolicy == MissingAggregate && c.Diagnostics != nil {
			c.Diagnostics.AddMissing(MissingLayers{
				ElementType: task.ElementType,
				AssetID:     task.AssetID,
				Source:      res.Source,
				Paths:       res.Missing,
			})
		}
	}

	canvas.Overlay(base)

	res.Output = c.OutputPath(task)
	if err := c.Output.Save(res.Output, canvas.Image()); err != nil {
		log.Error("failed to save icon", zap.String("path", res.Output), zap.Error(err))
		res.Status = StatusSaveFailed
		res.Err = err
		return res
	}

	log.Debug("icon written", zap.String("path", res.Output), zap.Int("missing_layers", len(res.Missing)))
	res.Status = StatusWritten
	return res
}

func (c *Compositor) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
