package session

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"image-viewer/internal/catalog"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
}

func newTestSession(t *testing.T, dir string) *Session {
	t.Helper()
	s := New(Options{})
	t.Cleanup(s.Close)
	if dir != "" {
		if err := s.SetDirectory(dir); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

// waitForEvent reads the event channel, discarding other kinds, until
// the wanted kind arrives or the deadline passes.
func waitForEvent(t *testing.T, s *Session, kind EventKind) Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-s.Events():
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", kind)
		}
	}
}

// waitForCurrentFile polls until the cursor lands on path.
func waitForCurrentFile(t *testing.T, s *Session, path string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.CurrentFile().Path() == filepath.Clean(path) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("cursor stuck at %q, want %q", s.CurrentFile().Path(), path)
}

func TestSetDirectoryBuildsIndex(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))
	writePNG(t, filepath.Join(dir, "b.png"))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newTestSession(t, dir)

	files := s.Files()
	if len(files) != 2 {
		t.Fatalf("Files() returned %d entries, want 2", len(files))
	}
	if s.Directory() != filepath.Clean(dir) {
		t.Errorf("Directory() = %q", s.Directory())
	}
	ev := waitForEvent(t, s, DirectoryUpdated)
	if ev.Force {
		t.Error("user-requested directory change marked Force")
	}
}

func TestSetDirectoryMissing(t *testing.T) {
	s := newTestSession(t, "")
	if err := s.SetDirectory(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("SetDirectory on a missing directory succeeded")
	}
}

func TestLoadSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writePNG(t, path)
	s := newTestSession(t, dir)

	s.Load(catalog.NewExistingFileRef(path), Interactive)

	waitForEvent(t, s, ImageUpdated)
	waitForCurrentFile(t, s, path)
	if !s.HasImage() {
		t.Error("HasImage() false after successful load")
	}
	if s.IsDirty() {
		t.Error("fresh load marked dirty")
	}
}

func TestLoadFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.png")
	bad := filepath.Join(dir, "b.png")
	writePNG(t, good)
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t, dir)

	s.Load(catalog.NewExistingFileRef(good), Silent)
	waitForCurrentFile(t, s, good)
	before := s.CurrentImage()

	s.Load(catalog.NewExistingFileRef(bad), Interactive)
	waitForEvent(t, s, FileNotLoaded)
	waitForEvent(t, s, ErrorDialog)

	if s.CurrentFile().Path() != good {
		t.Errorf("cursor = %q after failed load, want %q", s.CurrentFile().Path(), good)
	}
	if s.CurrentImage() != before {
		t.Error("image buffer changed by a failed load")
	}
}

func TestLoadFailureSilentSkipsDialog(t *testing.T) {
	dir := t.TempDir()
	s := newTestSession(t, dir)

	s.Load(catalog.NewFileRef(filepath.Join(dir, "gone.png")), Silent)
	waitForEvent(t, s, FileNotLoaded)

	select {
	case ev := <-s.Events():
		if ev.Kind == ErrorDialog {
			t.Error("silent load failure raised a dialog")
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestLastLoadWins(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writePNG(t, a)
	writePNG(t, b)
	s := newTestSession(t, dir)

	s.Load(catalog.NewExistingFileRef(a), Silent)
	s.Load(catalog.NewExistingFileRef(b), Silent)

	waitForCurrentFile(t, s, b)
	// the first request may still be in flight; it must never win
	time.Sleep(100 * time.Millisecond)
	if got := s.CurrentFile().Path(); got != b {
		t.Errorf("current file = %q, want %q (last request wins)", got, b)
	}
}

func TestNextFileAtEnd(t *testing.T) {
	dir := t.TempDir()
	img1 := filepath.Join(dir, "img1.png")
	img2 := filepath.Join(dir, "img2.png")
	writePNG(t, img1)
	writePNG(t, img2)
	s := newTestSession(t, dir)

	s.Load(catalog.NewExistingFileRef(img1), Silent)
	waitForCurrentFile(t, s, img1)

	s.NextFile(Silent)
	waitForCurrentFile(t, s, img2)

	s.NextFile(Interactive)
	ev := waitForEvent(t, s, InfoMessage)
	if ev.Message != "no more images" {
		t.Errorf("info message = %q", ev.Message)
	}
	if got := s.CurrentFile().Path(); got != img2 {
		t.Errorf("cursor moved past the end to %q", got)
	}
}

func TestNextFileSilentAtEnd(t *testing.T) {
	dir := t.TempDir()
	img1 := filepath.Join(dir, "img1.png")
	writePNG(t, img1)
	s := newTestSession(t, dir)

	s.Load(catalog.NewExistingFileRef(img1), Silent)
	waitForCurrentFile(t, s, img1)

	s.NextFile(Silent)
	select {
	case ev := <-s.Events():
		if ev.Kind == InfoMessage {
			t.Error("silent navigation posted an info message")
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFirstAndLastFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	c := filepath.Join(dir, "c.png")
	writePNG(t, a)
	writePNG(t, filepath.Join(dir, "b.png"))
	writePNG(t, c)
	s := newTestSession(t, dir)

	s.LastFile(Silent)
	waitForCurrentFile(t, s, c)

	s.FirstFile(Silent)
	waitForCurrentFile(t, s, a)
}

func TestNavigationIntoEmptySession(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	writePNG(t, a)
	s := newTestSession(t, dir)

	// no current file yet: NextFile enters the sequence at the front
	s.NextFile(Silent)
	waitForCurrentFile(t, s, a)
}

func TestLoadFileAt(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writePNG(t, a)
	writePNG(t, b)
	s := newTestSession(t, dir)

	s.LoadFileAt(1, Silent)
	waitForCurrentFile(t, s, b)

	s.LoadFileAt(0, Silent)
	waitForCurrentFile(t, s, a)

	s.LoadFileAt(5, Interactive)
	ev := waitForEvent(t, s, InfoMessage)
	if ev.Message != "no more images" {
		t.Errorf("info message = %q", ev.Message)
	}
	if got := s.CurrentFile().Path(); got != a {
		t.Errorf("out-of-range jump moved the cursor to %q", got)
	}
}

func TestLoadFailureRevertTargetGone(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writePNG(t, a)
	writePNG(t, b)
	s := newTestSession(t, dir)

	s.Load(catalog.NewExistingFileRef(a), Silent)
	waitForCurrentFile(t, s, a)

	// the fallback file vanishes while the cursor sits on the failing
	// target: the cursor must empty, not revert to a ghost
	s.mu.Lock()
	s.file = catalog.NewFileRef(b)
	s.mu.Unlock()
	if err := os.Remove(a); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	s.Load(catalog.NewFileRef(b), Silent)
	waitForEvent(t, s, FileNotLoaded)

	if s.HasFile() {
		t.Errorf("cursor reverted to missing file %q", s.CurrentFile().Path())
	}
	if s.HasImage() {
		t.Error("image of a vanished file kept after rollback")
	}
}

func TestConcurrentRebuildsKeepLoaderFilling(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))
	writePNG(t, filepath.Join(dir, "b.png"))
	s := newTestSession(t, dir)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.rebuildIndex()
		}()
	}
	wg.Wait()

	// whichever rebuild won, the loader must be filling the collection
	// the session exposes
	col := s.Thumbnails()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if col.LoadedCount() == col.Len() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("loaded %d of %d thumbnails, loader lost its collection", col.LoadedCount(), col.Len())
}

func TestRotateImageMarksDirty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writePNG(t, path)
	s := newTestSession(t, dir)

	s.RotateImage(90) // no image yet: no-op
	if s.IsDirty() {
		t.Error("rotate without an image marked dirty")
	}

	s.Load(catalog.NewExistingFileRef(path), Silent)
	waitForCurrentFile(t, s, path)

	s.RotateImage(90)
	if !s.IsDirty() {
		t.Error("rotate did not mark the session dirty")
	}
	waitForEvent(t, s, ImageUpdated)
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	writePNG(t, src)
	s := newTestSession(t, dir)

	s.Load(catalog.NewExistingFileRef(src), Silent)
	waitForCurrentFile(t, s, src)
	s.RotateImage(90)

	dst := filepath.Join(dir, "a-rotated.jpg")
	s.SaveFile(dst, nil, 90, Interactive)

	waitForCurrentFile(t, s, dst)
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if s.IsDirty() {
		t.Error("session still dirty after save")
	}
	// the rebuilt index picked up the new file
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.Files()) == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(s.Files()) != 2 {
		t.Errorf("index has %d files after save, want 2", len(s.Files()))
	}
}

func TestSaveFileUnwritableFormat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	writePNG(t, src)
	s := newTestSession(t, dir)

	s.Load(catalog.NewExistingFileRef(src), Silent)
	waitForCurrentFile(t, s, src)

	s.SaveFile(filepath.Join(dir, "a.xyz"), nil, 90, Interactive)
	waitForEvent(t, s, ErrorDialog)
	if got := s.CurrentFile().Path(); got != src {
		t.Errorf("failed save moved the cursor to %q", got)
	}
}

func TestDeleteFileAdvances(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writePNG(t, a)
	writePNG(t, b)
	s := newTestSession(t, dir)

	s.Load(catalog.NewExistingFileRef(a), Silent)
	waitForCurrentFile(t, s, a)

	s.DeleteFile(Silent)
	waitForCurrentFile(t, s, b)
	if _, err := os.Stat(a); !os.IsNotExist(err) {
		t.Errorf("deleted file still on disk: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.Files()) == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(s.Files()) != 1 {
		t.Errorf("index has %d files after delete, want 1", len(s.Files()))
	}
}

func TestClearPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writePNG(t, path)
	s := newTestSession(t, dir)

	s.Load(catalog.NewExistingFileRef(path), Silent)
	waitForCurrentFile(t, s, path)

	s.ClearPath()
	if s.HasFile() || s.HasImage() {
		t.Error("ClearPath left cursor or image behind")
	}
	if len(s.Files()) != 1 {
		t.Error("ClearPath dropped the directory index")
	}
}

func TestSaveDir(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))
	s := newTestSession(t, dir)

	if s.SaveDir() != filepath.Clean(dir) {
		t.Errorf("SaveDir() = %q, want load directory", s.SaveDir())
	}

	other := t.TempDir()
	s.SetSaveDir(other)
	if s.SaveDir() != filepath.Clean(other) {
		t.Errorf("SaveDir() = %q after SetSaveDir", s.SaveDir())
	}
	// the load directory is untouched
	if s.Directory() != filepath.Clean(dir) {
		t.Errorf("Directory() changed to %q", s.Directory())
	}
}

func TestGetStats(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))
	writePNG(t, filepath.Join(dir, "b.png"))
	s := newTestSession(t, dir)

	st := s.GetStats()
	if st.CatalogFiles != 2 {
		t.Errorf("CatalogFiles = %d, want 2", st.CatalogFiles)
	}
}

func TestThumbnailEventsFlow(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))
	s := newTestSession(t, dir)

	ev := waitForEvent(t, s, ThumbnailUpdated)
	if ev.File.Name() != "a.png" {
		t.Errorf("thumbnail event for %q", ev.File.Name())
	}
	col := s.Thumbnails()
	if col == nil || col.Len() != 1 {
		t.Fatal("thumbnail collection missing")
	}
}
