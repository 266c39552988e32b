package catalog

import "path/filepath"

// FileRef identifies one file by absolute, cleaned path, together with a
// cached existence flag captured when the ref was constructed. Immutable;
// two refs are equal iff their normalized paths match, regardless of the
// existence flag.
type FileRef struct {
	path   string
	exists bool
}

// NewFileRef builds a ref for path without touching the filesystem.
// The existence flag is left false; use NewExistingFileRef for entries that
// came from a directory enumeration.
func NewFileRef(path string) FileRef {
	return FileRef{path: normalize(path)}
}

// NewExistingFileRef builds a ref for a path known to exist at construction
// time (e.g., one returned by a directory listing).
func NewExistingFileRef(path string) FileRef {
	return FileRef{path: normalize(path), exists: true}
}

func normalize(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Path returns the normalized absolute path.
func (f FileRef) Path() string { return f.path }

// Name returns the file's base name.
func (f FileRef) Name() string {
	if f.path == "" {
		return ""
	}
	return filepath.Base(f.path)
}

// Dir returns the directory containing the file.
func (f FileRef) Dir() string {
	if f.path == "" {
		return ""
	}
	return filepath.Dir(f.path)
}

// Exists reports the existence flag cached at construction time.
func (f FileRef) Exists() bool { return f.exists }

// IsZero reports whether the ref names no file.
func (f FileRef) IsZero() bool { return f.path == "" }

// Equal reports path equality; the existence flag does not participate.
func (f FileRef) Equal(o FileRef) bool { return f.path == o.path }
