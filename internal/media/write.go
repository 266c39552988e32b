package media

import (
	"fmt"
	"image"

	"image-viewer/internal/imagetypes"
	"image-viewer/internal/logging"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used when the caller passes a negative compression.
const DefaultJPEGQuality = 90

// Save encodes img to path. The format is derived from the extension;
// compression is a JPEG quality in [1,100], or negative for the default
// (other formats ignore it). Writes go through a temp-free single Save the
// way the encoder library does it; callers wanting watcher suppression must
// arm it before calling.
func Save(path string, img image.Image, compression int) error {
	if img == nil {
		return fmt.Errorf("no image to save to %s", path)
	}
	if !imagetypes.CanWrite(path) {
		return fmt.Errorf("cannot encode %s: %w", path, ErrUnsupportedFormat)
	}

	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("cannot encode %s: %w", path, ErrUnsupportedFormat)
	}

	var opts []imaging.EncodeOption
	if format == imaging.JPEG {
		quality := compression
		if quality < 0 {
			quality = DefaultJPEGQuality
		}
		if quality > 100 {
			quality = 100
		}
		opts = append(opts, imaging.JPEGQuality(quality))
	}

	if err := imaging.Save(img, path, opts...); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.Debug("Saved %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}
