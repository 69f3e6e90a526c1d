package reload

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCheckReportsModification(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eop.txt")
	writeFile(t, path, "original")

	watcher := NewWatcher(path)
	if changed := watcher.Check(); len(changed) != 0 {
		t.Fatalf("fresh watcher must report nothing, got %v", changed)
	}

	writeFile(t, path, "rewritten data")
	// mtime granularity can swallow quick rewrites; force a distinct mtime.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	changed := watcher.Check()
	if len(changed) != 1 || changed[0] != path {
		t.Fatalf("expected %s reported once, got %v", path, changed)
	}
	if changed := watcher.Check(); len(changed) != 0 {
		t.Fatalf("change must be reported once, got %v", changed)
	}
}

func TestCheckReportsAppearanceAndRemoval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "late.txt")

	watcher := NewWatcher(path)
	writeFile(t, path, "now it exists")
	if changed := watcher.Check(); len(changed) != 1 {
		t.Fatalf("appearance must be reported, got %v", changed)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if changed := watcher.Check(); len(changed) != 1 {
		t.Fatalf("removal must be reported, got %v", changed)
	}
}

func TestUpdateReplacesTrackedSet(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	writeFile(t, first, "a")
	writeFile(t, second, "b")

	watcher := NewWatcher(first)
	watcher.Update(second, second, "")

	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(first, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if changed := watcher.Check(); len(changed) != 0 {
		t.Fatalf("untracked file must not be reported, got %v", changed)
	}
}

func TestNilWatcherIsInert(t *testing.T) {
	var watcher *Watcher
	watcher.Update("anything")
	if changed := watcher.Check(); changed != nil {
		t.Fatalf("nil watcher must report nothing, got %v", changed)
	}
}
