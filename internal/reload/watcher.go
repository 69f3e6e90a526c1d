// Package reload detects changes to the files a running service loaded,
// using stat polling rather than inotify so network mounts behave the same
// as local disks.
package reload

import (
	"os"
	"sort"
	"sync"
	"time"
)

type fileState struct {
	modTime time.Time
	size    int64
}

// Watcher keeps track of data and configuration files and detects
// modifications between polls.
type Watcher struct {
	mu    sync.Mutex
	files map[string]fileState
}

// NewWatcher builds a watcher over the given file paths. Paths that do not
// exist yet are still tracked and reported once they appear.
func NewWatcher(paths ...string) *Watcher {
	watcher := &Watcher{}
	watcher.Update(paths...)
	return watcher
}

// Update replaces the tracked file list and snapshots the current state.
func (w *Watcher) Update(paths ...string) {
	if w == nil {
		return
	}
	states := make(map[string]fileState, len(paths))
	for _, path := range uniquePaths(paths) {
		states[path] = statFile(path)
	}
	w.mu.Lock()
	w.files = states
	w.mu.Unlock()
}

// Check reports the files that changed since the last snapshot and advances
// the snapshot so each change is reported once.
func (w *Watcher) Check() []string {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	changed := make([]string, 0)
	for path, state := range w.files {
		now := statFile(path)
		if now != state {
			w.files[path] = now
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fileState{}
	}
	return fileState{modTime: info.ModTime(), size: info.Size()}
}

func uniquePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		result = append(result, path)
	}
	return result
}
