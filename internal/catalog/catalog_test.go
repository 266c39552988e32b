package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFiles creates empty files under dir and returns dir.
func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{0xFF}, 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestBuildFiltersAndOrders(t *testing.T) {
	dir := writeFiles(t, "a.jpg", "b.txt", "c.png")

	idx, err := Build(dir, nil, nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", idx.Len())
	}

	// os.ReadDir returns entries sorted by name
	if idx.At(0).Name() != "a.jpg" || idx.At(1).Name() != "c.png" {
		t.Errorf("unexpected order: %q, %q", idx.At(0).Name(), idx.At(1).Name())
	}

	if i, ok := idx.IndexOfPath(filepath.Join(dir, "c.png")); !ok || i != 1 {
		t.Errorf("IndexOfPath(c.png) = %d, %v; want 1, true", i, ok)
	}
}

func TestBuildSkipsHiddenAndDirs(t *testing.T) {
	dir := writeFiles(t, "a.jpg", ".hidden.jpg")
	if err := os.Mkdir(filepath.Join(dir, "sub.jpg"), 0755); err != nil {
		t.Fatal(err)
	}

	idx, err := Build(dir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
}

func TestBuildUnreadableDirectory(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "missing"), nil, nil)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestNeighborRoundTrip(t *testing.T) {
	dir := writeFiles(t, "a.jpg", "b.jpg", "c.jpg")
	idx, err := Build(dir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range idx.Files() {
		i, ok := idx.IndexOf(f)
		if !ok {
			t.Fatalf("IndexOf(%s) not found", f.Name())
		}
		got, ok := idx.Neighbor(i, 0)
		if !ok || !got.Equal(f) {
			t.Errorf("Neighbor(IndexOf(%s), 0) = %s, want identity", f.Name(), got.Name())
		}
	}
}

func TestNeighborBoundaries(t *testing.T) {
	dir := writeFiles(t, "a.jpg", "b.jpg", "c.jpg")
	idx, err := Build(dir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := idx.Neighbor(0, -1); ok {
		t.Error("Neighbor(0, -1) resolved; want empty (no wraparound)")
	}
	if _, ok := idx.Neighbor(idx.Len()-1, +1); ok {
		t.Error("Neighbor(N-1, +1) resolved; want empty (no wraparound)")
	}
	if got, ok := idx.Neighbor(0, +2); !ok || got.Name() != "c.jpg" {
		t.Errorf("Neighbor(0, +2) = %q, %v; want c.jpg", got.Name(), ok)
	}
}

func TestIndexOfMissingFile(t *testing.T) {
	dir := writeFiles(t, "a.jpg")
	idx, err := Build(dir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := idx.IndexOf(NewFileRef(filepath.Join(dir, "gone.jpg"))); ok {
		t.Error("IndexOf() found a file that is not in the index")
	}
}

func TestBuildWithKeywords(t *testing.T) {
	dir := writeFiles(t, "cat_01.jpg", "dog_01.jpg", "cat_backup.jpg")

	idx, err := Build(dir, []string{"backup"}, []string{"cat"})
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 1 || idx.At(0).Name() != "cat_01.jpg" {
		t.Errorf("keyword filtering failed: %d entries, first %q", idx.Len(), idx.At(0).Name())
	}
}

func TestFileRefEquality(t *testing.T) {
	a := NewFileRef("/pics/./a.jpg")
	b := NewExistingFileRef("/pics/a.jpg")
	if !a.Equal(b) {
		t.Error("refs with the same normalized path are not equal")
	}
	if a.Exists() || !b.Exists() {
		t.Error("existence flags mixed up")
	}
	if !(FileRef{}).IsZero() {
		t.Error("zero FileRef not IsZero")
	}
}
