package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func write(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func startWatcher(t *testing.T, paths ...string) (<-chan []string, context.CancelFunc, <-chan error) {
	t.Helper()
	w, err := New(paths...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	w.Delay = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan []string, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(changed []string) error {
			changes <- changed
			return nil
		})
	}()
	return changes, cancel, done
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "scene.dhs")
	other := filepath.Join(dir, "other.dhs")
	write(t, target, "v1")
	write(t, other, "v1")

	changes, cancel, done := startWatcher(t, target)
	defer cancel()

	// A burst of writes collapses into one callback.
	for i := 0; i < 5; i++ {
		write(t, target, "v2")
	}
	write(t, other, "v2")

	select {
	case changed := <-changes:
		if len(changed) != 1 || changed[0] != target {
			t.Errorf("changed = %v, want [%s]", changed, target)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case changed := <-changes:
		t.Errorf("unexpected second callback: %v", changed)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop on cancel")
	}
}

func TestWatchDir(t *testing.T) {
	dir := t.TempDir()
	changes, cancel, _ := startWatcher(t, dir)
	defer cancel()

	write(t, filepath.Join(dir, "notes.txt"), "ignored")
	write(t, filepath.Join(dir, "b.lua"), "dim(1, 1)")
	write(t, filepath.Join(dir, "a.dhs"), "%dhrender;")

	select {
	case changed := <-changes:
		want := []string{filepath.Join(dir, "a.dhs"), filepath.Join(dir, "b.lua")}
		if len(changed) != 2 || changed[0] != want[0] || changed[1] != want[1] {
			t.Errorf("changed = %v, want %v", changed, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestNewMissingPath(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing.dhs")); err == nil {
		t.Error("New(missing) succeeded")
	}
}
