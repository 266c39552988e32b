package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()
	w, err := New(50 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { w.Close() })
	if err := w.SetDirectory(dir); err != nil {
		t.Fatal(err)
	}
	return w
}

// waitEvent blocks until an event arrives or the deadline passes.
func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev, ok := <-w.Events():
		if !ok {
			t.Fatal("events channel closed while waiting")
		}
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
	}
	return Event{}
}

func expectQuiet(t *testing.T, w *Watcher, d time.Duration) {
	t.Helper()
	select {
	case ev, ok := <-w.Events():
		if ok {
			t.Fatalf("unexpected event %v for %s", ev.Kind, ev.Path)
		}
	case <-time.After(d):
	}
}

func TestCreateReportsDirectoryChanged(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "new.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := waitEvent(t, w)
	if ev.Kind != DirectoryChanged {
		t.Errorf("Kind = %v, want DirectoryChanged", ev.Kind)
	}
	if ev.Path != filepath.Clean(dir) {
		t.Errorf("Path = %q, want %q", ev.Path, dir)
	}
}

func TestRewriteReportsFileChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}
	w := newTestWatcher(t, dir)

	f, err := os.OpenFile(path, os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("two")); err != nil {
		t.Fatal(err)
	}
	f.Close()

	ev := waitEvent(t, w)
	if ev.Kind != FileChanged {
		t.Errorf("Kind = %v, want FileChanged", ev.Kind)
	}
	if ev.Path != path {
		t.Errorf("Path = %q, want %q", ev.Path, path)
	}
}

func TestRemoveReportsDirectoryChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	w := newTestWatcher(t, dir)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	ev := waitEvent(t, w)
	if ev.Kind != DirectoryChanged {
		t.Errorf("Kind = %v, want DirectoryChanged", ev.Kind)
	}
}

func TestSuppressSwallowsSelfWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}
	w := newTestWatcher(t, dir)

	w.Suppress(path)
	f, err := os.OpenFile(path, os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("two")); err != nil {
		t.Fatal(err)
	}
	f.Close()

	expectQuiet(t, w, 300*time.Millisecond)
}

func TestSuppressionIsOneShot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}
	w := newTestWatcher(t, dir)

	w.Suppress(path)
	if !w.consumeSuppression(path) {
		t.Fatal("armed marker was not consumed")
	}
	if w.consumeSuppression(path) {
		t.Error("marker consumed twice")
	}
}

func TestExpiredMarkersSweptOnFlush(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, dir)

	w.Suppress(filepath.Join(dir, "never-notified.jpg"))
	w.mu.Lock()
	for path := range w.suppressed {
		w.suppressed[path] = time.Now().Add(-suppressionTTL - time.Second)
	}
	w.mu.Unlock()

	// a flush with nothing pending still reclaims dead markers
	w.flush()

	w.mu.Lock()
	left := len(w.suppressed)
	w.mu.Unlock()
	if left != 0 {
		t.Errorf("%d expired markers survived the sweep", left)
	}
}

func TestSetDirectorySwitches(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	w := newTestWatcher(t, dirA)

	if err := w.SetDirectory(dirB); err != nil {
		t.Fatal(err)
	}
	if w.Directory() != filepath.Clean(dirB) {
		t.Errorf("Directory() = %q, want %q", w.Directory(), dirB)
	}

	// events now come from the new directory only
	if err := os.WriteFile(filepath.Join(dirB, "b.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	ev := waitEvent(t, w)
	if ev.Path != filepath.Clean(dirB) {
		t.Errorf("event from %q, want %q", ev.Path, dirB)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	w, err := New(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("events channel still open after Close")
	}
}
