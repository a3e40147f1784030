package watcher

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/onehostcloud/cloud-init/internal/utils"
)

// Watcher watches the managed files for outside edits and triggers a
// re-apply when one changes.
type Watcher struct {
	paths    map[string]bool
	logger   *utils.Logger
	watcher  *fsnotify.Watcher
	onChange func(path string) error
}

// NewWatcher creates a watcher over the given file paths. onChange is
// called with the path that changed.
func NewWatcher(paths []string, logger *utils.Logger, onChange func(path string) error) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		paths:    make(map[string]bool, len(paths)),
		logger:   logger,
		watcher:  fw,
		onChange: onChange,
	}

	// Watch the parent directories rather than the files themselves so
	// atomic renames keep being reported.
	dirs := make(map[string]bool)
	for _, path := range paths {
		w.paths[path] = true
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Start starts watching for file changes.
func (w *Watcher) Start() {
	go w.watch()
}

func (w *Watcher) watch() {
	w.logger.Info("watching %d file(s) for changes", len(w.paths))

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !w.paths[event.Name] {
				continue
			}

			// Write and create cover in-place edits and atomic renames.
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			w.logger.Info("%s changed, re-applying", event.Name)
			if err := w.onChange(event.Name); err != nil {
				w.logger.Error("re-apply for %s failed: %v", event.Name, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
