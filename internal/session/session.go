package session

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"
	"sync/atomic"

	"image-viewer/internal/catalog"
	"image-viewer/internal/database"
	"image-viewer/internal/logging"
	"image-viewer/internal/meta"
	"image-viewer/internal/metrics"
	"image-viewer/internal/thumbs"
	"image-viewer/internal/watch"
	"image-viewer/internal/workers"
)

const (
	// DefaultThumbMaxSide is the maximal thumbnail side length in pixels.
	DefaultThumbMaxSide = 160

	eventQueueSize = 128
)

// Options configures a Session. Store and Watcher are optional; without
// a watcher the session never sees external changes, without a store
// ratings and orientation overrides are not persisted.
type Options struct {
	Store           *database.Store
	Watcher         *watch.Watcher
	ThumbMaxSide    int
	IgnoreKeywords  []string
	IncludeKeywords []string
	MaxIOWorkers    int
}

// Session owns the navigation cursor, the directory index, and the
// current full-resolution image. Load and save I/O runs on background
// goroutines bounded by a semaphore; results are committed under the
// session mutex only if no newer request superseded them, and the
// display layer learns about everything through the event channel.
type Session struct {
	mu sync.Mutex
	// rebuildMu serializes index swaps with their loader restarts, so
	// a save-triggered rebuild and a watcher-triggered rebuild cannot
	// interleave Stop/Start and leave the loader bound to a stale
	// collection.
	rebuildMu    sync.Mutex
	index        *catalog.DirectoryIndex
	file         catalog.FileRef
	img          image.Image
	lastLoaded   catalog.FileRef
	saveDir      string
	dirty        bool
	folderUpd    bool
	thumbs       *thumbs.Collection
	ignore       []string
	include      []string
	thumbMaxSide int

	gen    atomic.Uint64
	ioSem  chan struct{}
	events chan Event

	loader    *thumbs.Loader
	watcher   *watch.Watcher
	store     *database.Store
	metaCache *meta.Cache
}

// New creates an empty session; bind it to a directory with SetDirectory.
func New(opts Options) *Session {
	maxSide := opts.ThumbMaxSide
	if maxSide <= 0 {
		maxSide = DefaultThumbMaxSide
	}
	ioWorkers := opts.MaxIOWorkers
	if ioWorkers <= 0 {
		ioWorkers = workers.ForIO(8)
	}
	s := &Session{
		ignore:       opts.IgnoreKeywords,
		include:      opts.IncludeKeywords,
		thumbMaxSide: maxSide,
		ioSem:        make(chan struct{}, ioWorkers),
		events:       make(chan Event, eventQueueSize),
		watcher:      opts.Watcher,
		store:        opts.Store,
		metaCache:    meta.NewCache(),
	}
	s.loader = thumbs.NewLoader(s.metaCache, func(_ int, file catalog.FileRef) {
		s.post(Event{Kind: ThumbnailUpdated, File: file})
	})
	return s
}

// Events returns the channel the display layer drains.
func (s *Session) Events() <-chan Event { return s.events }

// Close stops the background thumbnail loader. The watcher and store
// are owned by the caller and closed there.
func (s *Session) Close() {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()
	s.loader.Stop()
}

// HasFile reports whether a current file is set.
func (s *Session) HasFile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.file.IsZero()
}

// HasImage reports whether a decoded image is held.
func (s *Session) HasImage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img != nil
}

// CurrentFile returns the cursor's file reference, zero when empty.
func (s *Session) CurrentFile() catalog.FileRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

// CurrentImage returns the current full-resolution image, nil when
// nothing is loaded. The returned image is never mutated in place;
// every change swaps in a fresh buffer.
func (s *Session) CurrentImage() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

// Files returns the ordered displayable files of the bound directory.
func (s *Session) Files() []catalog.FileRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil
	}
	return s.index.Files()
}

// Directory returns the bound directory, or "".
func (s *Session) Directory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return ""
	}
	return s.index.Dir()
}

// IsDirty reports whether the in-memory image has unsaved edits.
func (s *Session) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// FolderUpdated reports whether the watcher observed a change the
// session has not yet reconciled into its index.
func (s *Session) FolderUpdated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.folderUpd
}

// SaveDir returns the directory save dialogs should default to. It
// tracks the last explicit save target when that differs from the load
// directory.
func (s *Session) SaveDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveDir != "" {
		return s.saveDir
	}
	if s.index != nil {
		return s.index.Dir()
	}
	return ""
}

// SetSaveDir overrides the default save target directory. It never
// changes which directory is indexed or watched.
func (s *Session) SetSaveDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveDir = filepath.Clean(dir)
}

// Thumbnails returns the current thumbnail collection, nil before the
// first SetDirectory.
func (s *Session) Thumbnails() *thumbs.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thumbs
}

// SetThumbnailWindow tells the loader which index range the display
// currently shows.
func (s *Session) SetThumbnailWindow(start, end int) {
	s.loader.SetLoadLimits(start, end)
}

// SetDirectory binds the session to dir: the index is rebuilt
// wholesale, the thumbnail loader restarts over the new sequence, and
// the watcher follows. If the previously current file still exists in
// the new index the cursor stays on it; otherwise the cursor empties.
func (s *Session) SetDirectory(dir string) error {
	idx, err := catalog.Build(dir, s.ignore, s.include)
	if err != nil {
		logging.Error("Cannot enumerate %s: %v", dir, err)
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	metrics.CatalogRebuildsTotal.Inc()
	s.applyIndex(idx, false)
	if s.watcher != nil {
		if err := s.watcher.SetDirectory(idx.Dir()); err != nil {
			logging.Warn("Cannot watch %s: %v", idx.Dir(), err)
		}
	}
	logging.Info("Directory set to %s (%d files)", idx.Dir(), idx.Len())
	return nil
}

// rebuildIndex re-enumerates the bound directory after a watcher
// event. Enumeration failure is reported once, not once per file.
func (s *Session) rebuildIndex() {
	s.mu.Lock()
	dir := ""
	if s.index != nil {
		dir = s.index.Dir()
	}
	s.mu.Unlock()
	if dir == "" {
		return
	}
	idx, err := catalog.Build(dir, s.ignore, s.include)
	if err != nil {
		logging.Error("Cannot enumerate %s: %v", dir, err)
		s.post(Event{Kind: InfoMessage, Message: fmt.Sprintf("folder %s is no longer readable", filepath.Base(dir))})
		return
	}
	metrics.CatalogRebuildsTotal.Inc()
	s.applyIndex(idx, true)
}

// applyIndex swaps in a freshly built index, re-resolving the cursor
// by path rather than position, and restarts the thumbnail loader over
// the new sequence. forced marks rebuilds the watcher triggered, as
// opposed to ones the user asked for.
func (s *Session) applyIndex(idx *catalog.DirectoryIndex, forced bool) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	s.loader.Stop()
	col := thumbs.NewCollection(idx.Files(), s.thumbMaxSide)

	s.mu.Lock()
	s.index = idx
	s.thumbs = col
	s.folderUpd = false
	cur := s.file
	lost := false
	if !cur.IsZero() {
		if _, ok := idx.IndexOfPath(cur.Path()); !ok {
			s.file = catalog.FileRef{}
			s.img = nil
			s.dirty = false
			lost = true
		}
	}
	s.mu.Unlock()

	s.loader.Start(col, idx.Dir())

	if lost {
		logging.Info("Current file %s vanished from %s", cur.Name(), idx.Dir())
		s.post(Event{Kind: FileNotLoaded, File: cur})
		s.post(Event{Kind: ImageUpdated})
	}
	s.post(Event{Kind: DirectoryUpdated, File: catalog.NewFileRef(idx.Dir()), Force: forced})
}

// ClearPath drops the cursor, the current image, and any unsaved edits.
// The directory index stays bound.
func (s *Session) ClearPath() {
	s.mu.Lock()
	s.file = catalog.FileRef{}
	s.img = nil
	s.dirty = false
	s.mu.Unlock()
	s.post(Event{Kind: ImageUpdated})
}

// GetStats implements metrics.StatsProvider.
func (s *Session) GetStats() metrics.Stats {
	s.mu.Lock()
	idx, col := s.index, s.thumbs
	s.mu.Unlock()

	st := metrics.Stats{MetaCacheEntries: s.metaCache.Len()}
	if idx != nil {
		st.CatalogFiles = idx.Len()
	}
	if col != nil {
		st.ThumbnailsLoaded = col.LoadedCount()
	}
	return st
}

// post hands an event to the display layer without ever blocking the
// caller. An unread queue means the display is gone or stuck; dropping
// is the lesser evil.
func (s *Session) post(ev Event) {
	select {
	case s.events <- ev:
	default:
		logging.Warn("Display event queue full, dropping %s", ev.Kind)
	}
}
