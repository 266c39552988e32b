package media

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	img := imaging.New(12, 8, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	path := filepath.Join(dir, "out.jpg")
	if err := Save(path, img, 85); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	back, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode() after Save: %v", err)
	}
	if back.Bounds().Dx() != 12 || back.Bounds().Dy() != 8 {
		t.Errorf("round trip bounds = %v, want 12x8", back.Bounds())
	}
}

func TestSaveDefaultCompression(t *testing.T) {
	dir := t.TempDir()
	img := imaging.New(4, 4, color.NRGBA{A: 255})
	if err := Save(filepath.Join(dir, "q.jpg"), img, -1); err != nil {
		t.Fatalf("Save() with default compression: %v", err)
	}
}

func TestSaveUnsupportedFormat(t *testing.T) {
	img := imaging.New(4, 4, color.NRGBA{A: 255})
	err := Save(filepath.Join(t.TempDir(), "out.webp"), img, -1)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestSaveNilImage(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "out.png"), nil, -1); err == nil {
		t.Error("Save(nil) succeeded")
	}
}

func TestSaveUnwritableTarget(t *testing.T) {
	img := imaging.New(4, 4, color.NRGBA{A: 255})
	err := Save(filepath.Join(t.TempDir(), "no", "such", "dir", "out.png"), img, -1)
	if err == nil {
		t.Error("Save into missing directory succeeded")
	}
	if errors.Is(err, os.ErrNotExist) == false && !IsIOFailure(err) {
		t.Logf("write failure classified as: %v", err)
	}
}
