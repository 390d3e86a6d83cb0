// Package batch runs the compositor over every asset of a layering file.
package batch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/icon-forge/internal/compose"
	"github.com/ironsheep/icon-forge/internal/config"
	"github.com/ironsheep/icon-forge/internal/imaging"
)

// Report summarizes one run.
type Report struct {
	RunID   string                  `json:"run_id"`
	Tasks   int                     `json:"tasks"`
	Written int                     `json:"written"`
	Failed  int                     `json:"failed"`
	Skipped []string                `json:"skipped"`
	Missing []compose.MissingLayers `json:"missing"`
	Elapsed time.Duration           `json:"elapsed"`
}

// Clean reports whether every asset was written with all of its layers.
func (r *Report) Clean() bool {
	return r.Failed == 0 && len(r.Skipped) == 0 && len(r.Missing) == 0
}

// BuildTasks flattens layering into one task per asset. folders maps an
// element type to its layer folder; nil gives every task an empty folder.
// Tasks are ordered by element type, then asset id.
func BuildTasks(layering config.Layering, folders func(elementType string) string) []compose.Task {
	tasks := make([]compose.Task, 0, layering.Count())
	for _, elementType := range layering.ElementTypes() {
		folder := ""
		if folders != nil {
			folder = folders(elementType)
		}
		assets := layering[elementType]
		for _, id := range sortedKeys(assets) {
			tasks = append(tasks, compose.Task{
				ElementType: elementType,
				AssetID:     id,
				Layers:      append([]string(nil), assets[id]...),
				LayerFolder: folder,
			})
		}
	}
	return tasks
}

// Orchestrator composes every asset of a layering concurrently.
type Orchestrator struct {
	layering config.Layering
	opts     Options
	logger   *zap.Logger

	// OnResult, when set, is called after each task. It may be called from
	// several goroutines at once.
	OnResult func(compose.Result)
}

// New returns an orchestrator for layering.
func New(layering config.Layering, opts Options, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{layering: layering, opts: opts, logger: logger}
}

// Tasks returns the tasks a run would execute.
func (o *Orchestrator) Tasks() []compose.Task {
	return BuildTasks(o.layering, o.opts.LayerFolder)
}

// Run composes every task and returns the aggregated diagnostics.
//
// A failing or panicking task never stops the others. The only error returned
// is ctx's, when it is cancelled before all tasks were started; the report
// then covers the tasks that did run.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	log := o.logger.With(zap.String("run_id", runID))
	start := time.Now()

	tasks := o.Tasks()
	diag := compose.NewDiagnostics()
	compositor := o.compositor(diag, log)

	log.Info("starting batch",
		zap.Int("tasks", len(tasks)),
		zap.Int("workers", o.opts.workers()),
		zap.String("layers_mode", o.opts.Mode.String()),
		zap.String("missing_layers", o.opts.MissingPolicy.String()))

	var written, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(o.opts.workers())

	var ctxErr error
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		g.Go(func() error {
			res, err := o.runTask(compositor, task)
			if err != nil {
				log.Error("task panicked",
					zap.String("element_type", task.ElementType),
					zap.String("asset", task.AssetID),
					zap.Error(err))
				failed.Add(1)
				return nil
			}
			switch res.Status {
			case compose.StatusWritten:
				written.Add(1)
			case compose.StatusSaveFailed:
				failed.Add(1)
			}
			if o.OnResult != nil {
				o.OnResult(res)
			}
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{
		RunID:   runID,
		Tasks:   len(tasks),
		Written: int(written.Load()),
		Failed:  int(failed.Load()),
		Skipped: diag.Skipped(),
		Missing: diag.Missing(),
		Elapsed: time.Since(start),
	}

	log.Info("batch finished",
		zap.Int("written", report.Written),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("missing", len(report.Missing)),
		zap.Duration("elapsed", report.Elapsed))

	return report, ctxErr
}

func (o *Orchestrator) runTask(c *compose.Compositor, task compose.Task) (res compose.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic composing %s/%s: %v\n%s", task.ElementType, task.AssetID, r, debug.Stack())
		}
	}()
	return c.Compose(task), nil
}

func (o *Orchestrator) compositor(diag *compose.Diagnostics, log *zap.Logger) *compose.Compositor {
	files := imaging.NewFileStore()

	var assets compose.Source = files
	if o.opts.Assets != nil {
		assets = o.opts.Assets
	}

	var layers compose.Source = files
	switch {
	case o.opts.Layers != nil:
		layers = o.opts.Layers
	case o.opts.CacheLayers:
		layers = imaging.NewCachedFileStore(imaging.NewImageCache())
	}

	var output compose.Sink = files
	if o.opts.Output != nil {
		output = o.opts.Output
	}

	return &compose.Compositor{
		SourceDir: o.opts.SourceDir,
		OutputDir: o.opts.OutputDir,
		Assets:    assets,
		Output:    output,
		Stacker: &compose.Stacker{
			Layers: layers,
			Tinter: o.opts.Tinter,
			Logger: log,
		},
		Diagnostics:   diag,
		MissingPolicy: o.opts.MissingPolicy,
		Logger:        log,
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
