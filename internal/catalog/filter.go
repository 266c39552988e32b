package catalog

import (
	"path/filepath"
	"strings"

	"image-viewer/internal/imagetypes"
)

// IsCandidate reports whether a path names a displayable image file.
//
// A path is a candidate iff its extension is in the supported-format
// registry, none of ignoreKeywords appear as a substring of the filename,
// and includeKeywords is empty or at least one keyword appears as a
// substring. Pure function: no I/O, no state.
func IsCandidate(path string, ignoreKeywords, includeKeywords []string) bool {
	if !imagetypes.IsImagePath(path) {
		return false
	}

	name := filepath.Base(path)
	for _, kw := range ignoreKeywords {
		if kw != "" && strings.Contains(name, kw) {
			return false
		}
	}

	if len(includeKeywords) == 0 {
		return true
	}
	for _, kw := range includeKeywords {
		if kw != "" && strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// FilterList applies IsCandidate to rawPaths, preserving input order.
// Existence of the returned refs is not checked here; callers that need the
// flag populated use Build.
func FilterList(rawPaths []string, ignoreKeywords, includeKeywords []string) []FileRef {
	refs := make([]FileRef, 0, len(rawPaths))
	for _, p := range rawPaths {
		if IsCandidate(p, ignoreKeywords, includeKeywords) {
			refs = append(refs, NewFileRef(p))
		}
	}
	return refs
}
