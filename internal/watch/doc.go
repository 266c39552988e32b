// Package watch turns raw fsnotify notifications into debounced,
// deduplicated change events for the session. It collapses the bursts
// editors produce into a single event per path, classifies membership
// changes apart from content rewrites, and swallows notifications the
// viewer caused itself through path-keyed suppression markers.
package watch
