package media

import (
	"errors"
	"io"
	"os"
)

// Decode failures are classified into three kinds so callers can tell a file
// the viewer will never read from one that is merely damaged or unreachable.
var (
	// ErrUnsupportedFormat marks files whose format is outside the registry.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrCorruptData marks files of a supported format that fail to decode.
	ErrCorruptData = errors.New("corrupt image data")
)

// IsIOFailure reports whether err is an I/O-level failure (missing file,
// permission, device error) rather than a format or data problem.
func IsIOFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrCorruptData) {
		return false
	}
	var pathErr *os.PathError
	return errors.As(err, &pathErr) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// sniffFormat reads the first bytes of header and names the container format,
// or "unknown". Used to decide between ErrCorruptData (recognized container,
// failed decode) and ErrUnsupportedFormat.
func sniffFormat(header []byte) string {
	switch {
	case len(header) >= 3 && header[0] == 0xFF && header[1] == 0xD8 && header[2] == 0xFF:
		return "jpeg"

	case len(header) >= 4 && header[0] == 0x89 && header[1] == 0x50 && header[2] == 0x4E && header[3] == 0x47:
		return "png"

	case len(header) >= 4 && header[0] == 0x47 && header[1] == 0x49 && header[2] == 0x46 && header[3] == 0x38:
		return "gif"

	case len(header) >= 12 && header[0] == 0x52 && header[1] == 0x49 && header[2] == 0x46 && header[3] == 0x46 &&
		header[8] == 0x57 && header[9] == 0x45 && header[10] == 0x42 && header[11] == 0x50:
		return "webp"

	case len(header) >= 2 && header[0] == 0x42 && header[1] == 0x4D:
		return "bmp"

	case len(header) >= 4 && ((header[0] == 0x49 && header[1] == 0x49 && header[2] == 0x2A && header[3] == 0x00) ||
		(header[0] == 0x4D && header[1] == 0x4D && header[2] == 0x00 && header[3] == 0x2A)):
		return "tiff"
	}

	return "unknown"
}
