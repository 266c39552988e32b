// Package session is the viewer's navigation and acquisition core. A
// Session binds to one directory, owns the "current file" cursor and
// the full-resolution image, and drives every operation the display
// layer asks for: loading, next/previous navigation, saving, deleting,
// rotating, rating. All disk and decode work runs on background
// goroutines; the session commits only the newest requested result and
// reports everything through a single typed event channel.
package session
