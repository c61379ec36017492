// Package watch re-runs work when scene files change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/scene"
)

// DefaultDelay is how long Watch waits for a burst of changes to settle.
const DefaultDelay = 300 * time.Millisecond

// Watcher reports changes to a set of scene files and directories.
type Watcher struct {
	// Delay debounces bursts of events into one callback.
	Delay time.Duration

	fsw   *fsnotify.Watcher
	files map[string]bool // watched files
	dirs  map[string]bool // directories watched for any scene file
}

// New watches paths. A file path reports changes to that file; a directory
// path reports changes to any scene file directly inside it.
func New(paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: set up watcher: %w", err)
	}
	w := &Watcher{
		Delay: DefaultDelay,
		fsw:   fsw,
		files: make(map[string]bool),
		dirs:  make(map[string]bool),
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: %w", err)
		}

		// Editors often replace files by rename, so watch the directory
		// and filter by name.
		dir := abs
		if info.IsDir() {
			w.dirs[abs] = true
		} else {
			w.files[abs] = true
			dir = filepath.Dir(abs)
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch: add %s: %w", dir, err)
		}
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) relevant(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if w.files[abs] {
		return true
	}
	return w.dirs[filepath.Dir(abs)] && scene.IsScript(abs)
}

// Run calls onChange with the changed paths, sorted, each time a burst of
// writes settles. It returns when ctx is done or the watcher is closed.
// Errors from onChange are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string) error) error {
	// Debounce mechanism for re-renders
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			raster.Logger().Debug("watch: file changed", "path", event.Name, "op", event.Op.String())
			if len(pending) > 0 && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			pending[event.Name] = true
			timer.Reset(w.Delay)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)

			if err := onChange(changed); err != nil {
				raster.Logger().Error("watch: update failed", "err", err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			raster.Logger().Warn("watch: watcher error", "err", err)
		}
	}
}
