package meta

import (
	"bytes"
	"image"

	"image-viewer/internal/filesystem"
	"image-viewer/internal/logging"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// Data is the metadata read from one file. A zero Data (orientation 0, no
// thumbnail) is what files without EXIF get.
type Data struct {
	// Orientation is the EXIF orientation value 1..8, or 0 when absent.
	Orientation int
	// Flipped reports whether the orientation implies a mirror.
	Flipped bool
	// thumb is the raw embedded JPEG thumbnail, nil when absent.
	thumb []byte
}

// HasThumbnail reports whether an embedded preview is present.
func (d *Data) HasThumbnail() bool { return len(d.thumb) > 0 }

// Thumbnail decodes the embedded preview. Returns nil, nil when absent;
// a damaged preview is an error.
func (d *Data) Thumbnail() (image.Image, error) {
	if len(d.thumb) == 0 {
		return nil, nil
	}
	return imaging.Decode(bytes.NewReader(d.thumb))
}

// Read parses the EXIF block of the file at path. Files without EXIF are not
// an error; they yield an empty Data.
func Read(path string) (*Data, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logging.Warn("failed to close %s: %v", path, closeErr)
		}
	}()

	x, err := exif.Decode(f)
	if err != nil {
		// no EXIF container at all is the common case for PNG/BMP
		logging.Debug("no EXIF in %s: %v", path, err)
		return &Data{}, nil
	}

	d := &Data{}
	if tag, err := x.Get(exif.Orientation); err == nil {
		if o, err := tag.Int(0); err == nil && o >= 1 && o <= 8 {
			d.Orientation = o
			d.Flipped = o == 2 || o == 4 || o == 5 || o == 7
		}
	}

	if thumb, err := x.JpegThumbnail(); err == nil {
		d.thumb = thumb
	}

	return d, nil
}

