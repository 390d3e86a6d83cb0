// Package watch triggers rebuilds when build inputs change on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the inputs must stay quiet before a rebuild.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Files are watched individually, typically the settings and layering files.
	Files []string

	// Dirs are watched recursively, typically the layer folders.
	Dirs []string

	Debounce time.Duration
}

// Watcher calls a rebuild function once changes to its inputs settle.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	trees    map[string]bool
	debounce time.Duration
	logger   *zap.Logger
}

// New starts watching the inputs named in opts. Paths that do not exist are
// logged and skipped. The returned Watcher must be consumed by Run, which
// releases it.
func New(opts Options, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]bool),
		trees:    make(map[string]bool),
		debounce: opts.Debounce,
		logger:   logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	// Editors often replace files on save, so the parent directory is watched
	// and events are filtered by name.
	for _, f := range opts.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		w.files[abs] = true
		w.add(filepath.Dir(abs))
	}
	for _, d := range opts.Dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			continue
		}
		w.addTree(abs)
	}

	return w, nil
}

// Watched returns the directories currently registered with the OS.
func (w *Watcher) Watched() []string {
	return w.watcher.WatchList()
}

// Run blocks until ctx is done, calling rebuild each time relevant changes
// have been quiet for the debounce period. Rebuilds never overlap; changes
// made during one schedule the next.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context)) error {
	defer w.watcher.Close()

	ticker := time.NewTicker(max(w.debounce/5, time.Millisecond))
	defer ticker.Stop()

	var pending bool
	var last time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.logger.Debug("input changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
				pending = true
				last = time.Now()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))

		case <-ticker.C:
			if pending && time.Since(last) >= w.debounce {
				pending = false
				rebuild(ctx)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Clean(event.Name)
	if w.files[name] {
		return true
	}
	if !w.trees[filepath.Dir(name)] {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			w.addTree(name)
		}
	}
	return true
}

func (w *Watcher) addTree(root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && w.add(path) {
			w.trees[path] = true
		}
		return nil
	})
	if err != nil {
		w.logger.Warn("cannot watch folder", zap.String("path", root), zap.Error(err))
	}
}

func (w *Watcher) add(dir string) bool {
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Warn("cannot watch folder", zap.String("path", dir), zap.Error(err))
		return false
	}
	w.logger.Debug("watching", zap.String("path", dir))
	return true
}
