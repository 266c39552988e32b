// Package database is the sidecar store for metadata edits the viewer makes
// but never writes back into image files: star ratings, orientation
// overrides, and the horizontal-flip flag, keyed by absolute path.
package database
