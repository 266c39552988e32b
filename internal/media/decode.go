package media

import (
	"fmt"
	"image"
	"os"

	"image-viewer/internal/filesystem"
	"image-viewer/internal/imagetypes"
	"image-viewer/internal/logging"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP format support
	_ "golang.org/x/image/tiff" // TIFF format support
	_ "golang.org/x/image/webp" // WebP format support
)

const (
	// MaxImageDimension is the maximum width or height we'll decode at full
	// size. Larger images are downscaled during load.
	MaxImageDimension = 4096

	// MaxImagePixels caps total pixels (width * height) for a full decode.
	// ~20MP uses ~80MB in RGBA.
	MaxImagePixels = 20_000_000
)

// Decode loads the image at path with EXIF auto-orientation applied.
//
// Failures are classified: a missing or unreadable file comes back as an
// I/O error (see IsIOFailure), a file outside the format registry as
// ErrUnsupportedFormat, and a registered format that fails to parse as
// ErrCorruptData.
func Decode(path string) (image.Image, error) {
	if _, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig()); err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}

	if !imagetypes.IsImagePath(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}

	logging.Debug("decode failed for %s: %v", path, err)
	return nil, classifyDecodeFailure(path, err)
}

// classifyDecodeFailure distinguishes corrupt data from unsupported content
// by sniffing the file header.
func classifyDecodeFailure(path string, decodeErr error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, 32)
	n, err := f.Read(header)
	if err != nil || n == 0 {
		return fmt.Errorf("%s: %w", path, ErrCorruptData)
	}

	if sniffFormat(header[:n]) == "unknown" {
		// extension was registered but the bytes are something else entirely
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	return fmt.Errorf("%s: %v: %w", path, decodeErr, ErrCorruptData)
}

// DecodeConstrained decodes path, downscaling during load when the image
// exceeds maxDimension on a side or maxPixels in total. This bounds memory
// for very large files.
func DecodeConstrained(path string, maxDimension, maxPixels int) (image.Image, error) {
	width, height, err := Dimensions(path)
	if err != nil {
		// could not cheaply size it; fall back to a plain decode
		logging.Debug("could not read dimensions of %s: %v", path, err)
		return Decode(path)
	}

	img, err := Decode(path)
	if err != nil {
		return nil, err
	}

	if width <= maxDimension && height <= maxDimension && width*height <= maxPixels {
		return img, nil
	}

	targetW, targetH := width, height
	if width > maxDimension || height > maxDimension {
		if width > height {
			targetW = maxDimension
			targetH = height * maxDimension / width
		} else {
			targetH = maxDimension
			targetW = width * maxDimension / height
		}
	}
	if targetW*targetH > maxPixels {
		scale := float64(maxPixels) / float64(targetW*targetH)
		targetW = int(float64(targetW) * scale)
		targetH = int(float64(targetH) * scale)
	}

	logging.Info("Constraining large image %s from %dx%d to %dx%d", path, width, height, targetW, targetH)
	return imaging.Resize(img, targetW, targetH, imaging.Lanczos), nil
}

// Dimensions returns image width and height without fully decoding the pixels.
func Dimensions(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logging.Warn("failed to close image file %s: %v", path, closeErr)
		}
	}()

	config, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return config.Width, config.Height, nil
}
