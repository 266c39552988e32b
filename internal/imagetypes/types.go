package imagetypes

import (
	"path/filepath"
	"sort"
	"strings"
)

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
}

// WritableExtensions maps file extensions to whether the viewer can encode them.
// WebP is decode-only.
var WritableExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
}

// IsImageFile returns true if the extension represents a supported image format.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
func IsImageFile(ext string) bool {
	return ImageExtensions[ext]
}

// IsImagePath returns true if the path's extension represents a supported
// image format. Case-insensitive.
func IsImagePath(path string) bool {
	return IsImageFile(strings.ToLower(filepath.Ext(path)))
}

// CanWrite returns true if the path's extension is an encodable format.
func CanWrite(path string) bool {
	return WritableExtensions[strings.ToLower(filepath.Ext(path))]
}

// GetMimeType returns the MIME type for a given file extension.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// OpenFilter returns a file-dialog filter string covering every readable format.
func OpenFilter() string {
	return "Images (" + globs(ImageExtensions) + ")"
}

// SaveFilter returns a file-dialog filter string covering every writable format.
func SaveFilter() string {
	return "Images (" + globs(WritableExtensions) + ")"
}

func globs(exts map[string]bool) string {
	patterns := make([]string, 0, len(exts))
	for ext := range exts {
		patterns = append(patterns, "*"+ext)
	}
	sort.Strings(patterns)
	return strings.Join(patterns, " ")
}
