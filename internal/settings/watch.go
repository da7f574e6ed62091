package settings

import (
	"context"
	"os"
	"time"
)

// DefaultWatchInterval is how often a Watcher polls the settings file.
const DefaultWatchInterval = time.Second

// Watcher polls a settings file for changes made by other processes.
type Watcher struct {
	path     string
	interval time.Duration
}

// NewWatcher creates a watcher for path
func NewWatcher(path string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watcher{path: path, interval: interval}
}

type fileState struct {
	modTime time.Time
	size    int64
	exists  bool
}

func (w *Watcher) stat() fileState {
	info, err := os.Stat(w.path)
	if err != nil {
		return fileState{}
	}
	return fileState{modTime: info.ModTime(), size: info.Size(), exists: true}
}

// WaitForChange blocks until the file is created, modified or removed, or
// ctx is done. It reports whether a change was seen.
func (w *Watcher) WaitForChange(ctx context.Context) bool {
	initial := w.stat()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if w.stat() != initial {
				return true
			}
		}
	}
}

// Run calls onChange after every change until ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	for w.WaitForChange(ctx) {
		onChange()
	}
}
