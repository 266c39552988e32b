package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"image-viewer/internal/logging"
	"image-viewer/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// Kind distinguishes a content change of one file from a membership
// change of the watched directory.
type Kind int

const (
	// FileChanged means an existing file's content was rewritten.
	FileChanged Kind = iota
	// DirectoryChanged means files were added, removed, or renamed.
	DirectoryChanged
)

func (k Kind) String() string {
	if k == DirectoryChanged {
		return "directory"
	}
	return "file"
}

// Event is one debounced filesystem observation.
type Event struct {
	Kind Kind
	Path string
}

const (
	// DefaultDebounce is how long raw notifications are aggregated
	// before an Event is posted. Editors and copies commonly touch a
	// file several times in quick succession.
	DefaultDebounce = 250 * time.Millisecond

	// suppressionTTL bounds how long a self-write marker stays armed.
	// Markers are normally consumed by the very next notification for
	// their path; the TTL only reclaims markers whose notification
	// never arrived.
	suppressionTTL = 10 * time.Second
)

// Watcher watches a single directory and posts debounced Events to a
// buffered channel drained by exactly one consumer. Raw notifications
// for paths carrying a suppression marker are swallowed, so the
// session's own writes do not come back as external changes.
type Watcher struct {
	mu         sync.Mutex
	fw         *fsnotify.Watcher
	dir        string
	debounce   time.Duration
	pending    map[string]fsnotify.Op
	suppressed map[string]time.Time
	events     chan Event
	stopChan   chan struct{}
	doneChan   chan struct{}
}

// New creates a watcher with no directory bound yet. A debounce of 0
// selects DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		fw:         fw,
		debounce:   debounce,
		pending:    make(map[string]fsnotify.Op),
		suppressed: make(map[string]time.Time),
		events:     make(chan Event, 64),
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Events returns the channel the session drains. It is closed by Close.
func (w *Watcher) Events() <-chan Event { return w.events }

// Directory returns the currently watched directory, or "".
func (w *Watcher) Directory() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// SetDirectory rebinds the watcher to dir, dropping any notifications
// still pending for the previous directory.
func (w *Watcher) SetDirectory(dir string) error {
	dir = filepath.Clean(dir)
	w.mu.Lock()
	defer w.mu.Unlock()
	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		if err := w.fw.Remove(w.dir); err != nil {
			// the old directory may already be gone
			logging.Debug("Failed to unwatch %s: %v", w.dir, err)
		}
	}
	if err := w.fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.dir = dir
	w.pending = make(map[string]fsnotify.Op)
	logging.Debug("Watching %s", dir)
	return nil
}

// Suppress arms a one-shot marker for path. The next notification for
// that path is swallowed instead of posted. Callers arm the marker
// after their write completes, so the marker's lifetime starts at
// write completion rather than at write start; the TTL only cleans up
// markers whose notification was coalesced away.
func (w *Watcher) Suppress(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.suppressed[filepath.Clean(path)] = time.Now()
}

// consumeSuppression reports whether path carries a live marker and
// spends it.
func (w *Watcher) consumeSuppression(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	armed, ok := w.suppressed[path]
	if !ok {
		return false
	}
	delete(w.suppressed, path)
	if time.Since(armed) > suppressionTTL {
		return false
	}
	return true
}

// sweepSuppressed reclaims expired markers. Without it, markers whose
// notification the kernel never delivered would pile up for the
// lifetime of the watcher.
func (w *Watcher) sweepSuppressed() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, armed := range w.suppressed {
		if time.Since(armed) > suppressionTTL {
			delete(w.suppressed, path)
		}
	}
}

// Close stops the watcher and closes the Events channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	select {
	case <-w.stopChan:
		w.mu.Unlock()
		return nil
	default:
	}
	close(w.stopChan)
	w.mu.Unlock()

	err := w.fw.Close()
	<-w.doneChan
	return err
}

func (w *Watcher) run() {
	defer close(w.doneChan)
	defer close(w.events)

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.collect(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logging.Warn("Filesystem watcher error: %v", err)
			metrics.WatcherErrors.Inc()
		case <-ticker.C:
			w.flush()
		}
	}
}

// collect folds one raw notification into the pending set.
func (w *Watcher) collect(ev fsnotify.Event) {
	w.mu.Lock()
	w.pending[filepath.Clean(ev.Name)] |= ev.Op
	w.mu.Unlock()
}

// flush turns the pending set into Events, one per path. A membership
// operation anywhere in the aggregate wins over a plain write.
// Suppression is checked here rather than per raw notification, so the
// several notifications one logical write produces spend a single
// marker between them.
func (w *Watcher) flush() {
	w.sweepSuppressed()
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	pending := w.pending
	w.pending = make(map[string]fsnotify.Op)
	dir := w.dir
	w.mu.Unlock()

	// membership changes collapse into one event per flush; every
	// rebuild re-lists the whole directory anyway
	dirChanged := false
	for path, op := range pending {
		if w.consumeSuppression(path) {
			logging.Debug("Suppressed self-write notification for %s", path)
			metrics.WatcherEventsSuppressed.Inc()
			continue
		}
		if op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
			dirChanged = true
			continue
		}
		w.post(Event{Kind: FileChanged, Path: path})
	}
	if dirChanged {
		w.post(Event{Kind: DirectoryChanged, Path: dir})
	}
}

func (w *Watcher) post(ev Event) {
	metrics.WatcherEventsTotal.WithLabelValues(ev.Kind.String()).Inc()
	select {
	case w.events <- ev:
	default:
		logging.Warn("Watcher event queue full, dropping %s event for %s", ev.Kind, ev.Path)
	}
}
