package media

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"image-viewer/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// InitVips initializes the libvips library.
// This should be called once at startup; without it the thumbnail fallback
// uses the pure-Go decode path.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Route vips logs through our logger, filtered to the configured level.
	var vipsLogLevel vips.LogLevel
	if logging.IsDebugEnabled() {
		vipsLogLevel = vips.LogLevelInfo
	} else {
		vipsLogLevel = vips.LogLevelWarning
	}
	vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
		switch {
		case level <= vips.LogLevelCritical || level == vips.LogLevelError:
			logging.Error("[%s] %s", domain, msg)
		case level == vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}, vipsLogLevel)

	// Conservative memory settings: one image at a time, small cache.
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized (version: %s)", vips.Version)
	return nil
}

// ShutdownVips cleans up libvips resources.
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available.
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// ThumbnailWithVips decodes path shrunk to fit maxSide using libvips
// decode-time shrinking, which avoids materializing the full-size pixels.
func ThumbnailWithVips(path string, maxSide int) (image.Image, error) {
	if !IsVipsAvailable() {
		return nil, fmt.Errorf("libvips not available")
	}

	logging.Debug("Loading %s with vips (max side: %d)", filepath.Base(path), maxSide)

	ref, err := vips.LoadImageFromFile(path, vips.NewImportParams())
	if err != nil {
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	if err := ref.Thumbnail(maxSide, maxSide, vips.InterestingNone); err != nil {
		return nil, fmt.Errorf("vips resize failed: %w", err)
	}

	imgBytes, _, err := ref.ExportJpeg(&vips.JpegExportParams{
		Quality:        95,
		StripMetadata:  false,
		OptimizeCoding: true,
	})
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}

	// convert back to image.Image to keep the collaborator API uniform
	img, err := imaging.Decode(bytes.NewReader(imgBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode vips output: %w", err)
	}

	return img, nil
}
