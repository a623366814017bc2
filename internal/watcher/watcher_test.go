package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type pathRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *pathRecorder) record(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

func (r *pathRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func (r *pathRecorder) waitFor(t *testing.T, n int, timeout time.Duration) []string {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if got := r.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	got := r.snapshot()
	t.Fatalf("timed out waiting for %d callbacks, got %d: %v", n, len(got), got)
	return got
}

func startWatcher(t *testing.T, root string, exts []string, rec *pathRecorder) *Watcher {
	t.Helper()
	w := New(root, exts, rec.record, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcherImportsDroppedFile(t *testing.T) {
	dir := t.TempDir()
	rec := &pathRecorder{}
	startWatcher(t, dir, []string{".csv"}, rec)

	if err := os.WriteFile(filepath.Join(dir, "skip.tmp"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	csvPath := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(csvPath, []byte("text,intent\n"), 0600); err != nil {
		t.Fatal(err)
	}

	got := rec.waitFor(t, 1, 3*time.Second)
	for _, p := range got {
		if strings.HasSuffix(p, "skip.tmp") {
			t.Errorf("non-matching extension imported: %v", got)
		}
	}
	if !strings.HasSuffix(got[0], "data.csv") {
		t.Errorf("imported %v, want data.csv", got)
	}
}

func TestWatcherDebounceCollapsesWrites(t *testing.T) {
	dir := t.TempDir()
	rec := &pathRecorder{}
	startWatcher(t, dir, []string{".csv"}, rec)

	path := filepath.Join(dir, "burst.csv")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("text,intent\n"), 0600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec.waitFor(t, 1, 3*time.Second)
	time.Sleep(200 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 1 {
		t.Errorf("got %d callbacks for a write burst, want 1: %v", len(got), got)
	}
}

func TestWatcherRemoveCancelsPending(t *testing.T) {
	dir := t.TempDir()
	rec := &pathRecorder{}
	w := New(dir, []string{".csv"}, rec.record, WithDebounce(300*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "gone.csv")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	time.Sleep(600 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("removed file still imported: %v", got)
	}
}

func TestWatcherNewDirectorySynced(t *testing.T) {
	dir := t.TempDir()
	rec := &pathRecorder{}
	startWatcher(t, dir, []string{".txt"}, rec)

	sub := filepath.Join(dir, "dropped")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "corpus.txt"), []byte("hello."), 0600); err != nil {
		t.Fatal(err)
	}

	got := rec.waitFor(t, 1, 3*time.Second)
	found := false
	for _, p := range got {
		if strings.HasSuffix(p, "corpus.txt") {
			found = true
		}
	}
	if !found {
		t.Errorf("file in new directory not imported: %v", got)
	}
}

func TestWatcherSyncExisting(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "old.csv"), []byte("text,intent\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignore.xyz"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	rec := &pathRecorder{}
	w := startWatcher(t, dir, []string{".csv"}, rec)
	w.SyncExisting()

	got := rec.snapshot()
	if len(got) != 1 || !strings.HasSuffix(got[0], "old.csv") {
		t.Errorf("SyncExisting imported %v, want only old.csv", got)
	}
}

func TestWatcherStartCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "drop", "datasets")

	rec := &pathRecorder{}
	w := New(root, nil, rec.record)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if _, err := os.Stat(root); err != nil {
		t.Errorf("root should exist after Start: %v", err)
	}
	if w.Root() != filepath.Clean(root) {
		t.Errorf("Root() = %q", w.Root())
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w := New(t.TempDir(), nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/drop/a.csv", []string{".csv", ".json"}, true},
		{"/drop/a.CSV", []string{".csv"}, true},
		{"/drop/a.csv", []string{"csv"}, true},
		{"/drop/a.md", []string{".csv"}, false},
		{"/drop/a", nil, true},
		{"/drop/a", []string{}, true},
	}
	for _, tt := range tests {
		if got := matchExtension(tt.path, tt.extensions); got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}

func TestInDir(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/drop/a", "/drop/a", true},
		{"/drop/a", "/drop/a/b.csv", true},
		{"/drop/a", "/drop/b", false},
		{"/drop/a", "/drop/a/../b", false},
	}
	for _, tt := range tests {
		if got := inDir(tt.dir, tt.path); got != tt.want {
			t.Errorf("inDir(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}
