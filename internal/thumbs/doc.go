// Package thumbs decodes thumbnails in the background. A Collection
// holds one record per directory entry and the index window the
// display currently shows; a Loader goroutine walks the window,
// filling records without ever blocking the session, and reports each
// completed file so the display can redraw incrementally.
package thumbs
