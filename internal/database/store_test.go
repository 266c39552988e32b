package database

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "meta.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})
	return s
}

func TestGetUnknownPath(t *testing.T) {
	s := openTestStore(t)

	m, err := s.Get(context.Background(), "/pics/unrated.jpg")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if m.Rating != 0 || m.Orientation != 0 || m.Flipped {
		t.Errorf("unknown path returned non-zero meta: %+v", m)
	}
	if m.Path != "/pics/unrated.jpg" {
		t.Errorf("Path = %q", m.Path)
	}
}

func TestSetRating(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SetRating(ctx, "/pics/a.jpg", 4); err != nil {
		t.Fatal(err)
	}
	m, err := s.Get(ctx, "/pics/a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if m.Rating != 4 {
		t.Errorf("Rating = %d, want 4", m.Rating)
	}

	// update in place
	if err := s.SetRating(ctx, "/pics/a.jpg", 2); err != nil {
		t.Fatal(err)
	}
	m, _ = s.Get(ctx, "/pics/a.jpg")
	if m.Rating != 2 {
		t.Errorf("Rating after update = %d, want 2", m.Rating)
	}
}

func TestSetRatingOutOfRange(t *testing.T) {
	s := openTestStore(t)
	if err := s.SetRating(context.Background(), "/pics/a.jpg", 6); err == nil {
		t.Error("SetRating(6) succeeded")
	}
	if err := s.SetRating(context.Background(), "/pics/a.jpg", -1); err == nil {
		t.Error("SetRating(-1) succeeded")
	}
}

func TestOrientationAndFlipIndependent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	path := "/pics/b.jpg"

	if err := s.SetOrientation(ctx, path, 6); err != nil {
		t.Fatal(err)
	}
	if err := s.SetFlipped(ctx, path, true); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRating(ctx, path, 5); err != nil {
		t.Fatal(err)
	}

	m, err := s.Get(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Orientation != 6 || !m.Flipped || m.Rating != 5 {
		t.Errorf("fields clobbered each other: %+v", m)
	}
}

func TestRemove(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SetRating(ctx, "/pics/c.jpg", 3); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(ctx, "/pics/c.jpg"); err != nil {
		t.Fatal(err)
	}
	m, _ := s.Get(ctx, "/pics/c.jpg")
	if m.Rating != 0 {
		t.Errorf("Rating after Remove = %d, want 0", m.Rating)
	}
}

func TestRename(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SetRating(ctx, "/pics/old.jpg", 3); err != nil {
		t.Fatal(err)
	}
	if err := s.Rename(ctx, "/pics/old.jpg", "/pics/new.jpg"); err != nil {
		t.Fatal(err)
	}

	m, _ := s.Get(ctx, "/pics/new.jpg")
	if m.Rating != 3 {
		t.Errorf("rating did not follow rename: %+v", m)
	}
	m, _ = s.Get(ctx, "/pics/old.jpg")
	if m.Rating != 0 {
		t.Errorf("old path still has rating: %+v", m)
	}
}
