// Package meta reads image metadata: EXIF orientation, mirror flag, and the
// embedded thumbnail used as the fast path for preview loading. Reads are
// memoized in a per-session Cache with explicit invalidation.
//
// Writes (rating, orientation overrides, horizontal flip) are persisted by
// the database package; this package is read-only with respect to files.
package meta
