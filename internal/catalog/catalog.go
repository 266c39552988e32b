package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"image-viewer/internal/filesystem"
	"image-viewer/internal/logging"
)

// DirectoryIndex is the ordered, filtered listing of one directory: every
// entry satisfies the filter policy and paths are unique. An index is built
// wholesale and never patched in place; any directory change is handled by
// building a fresh index so that positions held by observers of the old
// index stay internally consistent.
type DirectoryIndex struct {
	dir     string
	refs    []FileRef
	byPath  map[string]int
	ignore  []string
	include []string
}

// Build enumerates dir, applies the filter policy, and returns the resulting
// index. Entries keep filesystem enumeration order. Hidden files are skipped
// the same way the rest of the viewer skips them.
func Build(dir string, ignoreKeywords, includeKeywords []string) (*DirectoryIndex, error) {
	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", dir, err)
	}

	idx := &DirectoryIndex{
		dir:     normalize(dir),
		byPath:  make(map[string]int),
		ignore:  append([]string(nil), ignoreKeywords...),
		include: append([]string(nil), includeKeywords...),
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !IsCandidate(entry.Name(), ignoreKeywords, includeKeywords) {
			continue
		}
		ref := NewExistingFileRef(filepath.Join(dir, entry.Name()))
		if _, dup := idx.byPath[ref.Path()]; dup {
			continue
		}
		idx.byPath[ref.Path()] = len(idx.refs)
		idx.refs = append(idx.refs, ref)
	}

	logging.Debug("Indexed %s: %d of %d entries are candidates", dir, len(idx.refs), len(entries))
	return idx, nil
}

// Dir returns the indexed directory.
func (x *DirectoryIndex) Dir() string { return x.dir }

// Len returns the number of entries.
func (x *DirectoryIndex) Len() int { return len(x.refs) }

// Files returns a copy of the ordered entries.
func (x *DirectoryIndex) Files() []FileRef {
	return append([]FileRef(nil), x.refs...)
}

// At returns the entry at position i, or a zero ref if out of range.
func (x *DirectoryIndex) At(i int) FileRef {
	if i < 0 || i >= len(x.refs) {
		return FileRef{}
	}
	return x.refs[i]
}

// IndexOf returns the position of file in the index. The second return is
// false when the file is not present (e.g., deleted before the lookup).
func (x *DirectoryIndex) IndexOf(file FileRef) (int, bool) {
	i, ok := x.byPath[file.Path()]
	return i, ok
}

// IndexOfPath is IndexOf for a raw path.
func (x *DirectoryIndex) IndexOfPath(path string) (int, bool) {
	i, ok := x.byPath[normalize(path)]
	return i, ok
}

// Neighbor returns the entry at index+delta. There is no clamping and no
// wraparound: out-of-range resolves to a zero ref and false, and the caller
// decides whether that means "stop" or "wrap".
func (x *DirectoryIndex) Neighbor(index, delta int) (FileRef, bool) {
	target := index + delta
	if target < 0 || target >= len(x.refs) {
		return FileRef{}, false
	}
	return x.refs[target], true
}

// Keywords returns the ignore and include keyword sets the index was built with.
func (x *DirectoryIndex) Keywords() (ignore, include []string) {
	return append([]string(nil), x.ignore...), append([]string(nil), x.include...)
}
