package thumbs

import (
	"image"
	"sync"

	"image-viewer/internal/catalog"
	"image-viewer/internal/logging"
	"image-viewer/internal/media"
	"image-viewer/internal/meta"
	"image-viewer/internal/metrics"
)

// State is the loader's lifecycle phase.
type State int

const (
	Idle State = iota
	Running
	StopRequested
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case StopRequested:
		return "stop-requested"
	default:
		return "unknown"
	}
}

// UpdateFunc is called once per file after its thumbnail decodes, from
// the loader goroutine. Implementations must not block for long.
type UpdateFunc func(index int, file catalog.FileRef)

// Loader fills a Collection's records from a single background
// goroutine. It scans the window of interest for pending records,
// preferring the embedded EXIF preview over a full decode, and checks
// for a stop request between files, never mid-decode. Parsed metadata
// goes through the shared cache, so re-scanning a window after an
// invalidation only re-reads the files that actually changed.
type Loader struct {
	mu       sync.Mutex
	state    State
	col      *Collection
	dir      string
	cache    *meta.Cache
	stopChan chan struct{}
	kickChan chan struct{}
	doneChan chan struct{}
	onUpdate UpdateFunc
}

// NewLoader creates an idle loader. A nil cache gets a private one;
// onUpdate may be nil.
func NewLoader(cache *meta.Cache, onUpdate UpdateFunc) *Loader {
	if cache == nil {
		cache = meta.NewCache()
	}
	return &Loader{cache: cache, onUpdate: onUpdate}
}

// State reports the loader's current phase.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Start binds the loader to a collection and spawns the worker
// goroutine. Calling Start while already running is a no-op; callers
// must Stop first when the directory changes.
func (l *Loader) Start(col *Collection, dir string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Idle {
		logging.Warn("Thumbnail loader already running for %s, ignoring start", l.dir)
		return
	}
	l.col = col
	l.dir = dir
	l.state = Running
	l.stopChan = make(chan struct{})
	l.kickChan = make(chan struct{}, 1)
	l.doneChan = make(chan struct{})
	logging.Debug("Thumbnail loader starting for %s (%d files)", dir, col.Len())
	go l.run(col, dir, l.stopChan, l.kickChan, l.doneChan)
}

// SetLoadLimits narrows the window of interest to [start, end) and
// wakes the worker. Safe to call concurrently; it never interrupts the
// decode currently in flight.
func (l *Loader) SetLoadLimits(start, end int) {
	l.mu.Lock()
	col, kick := l.col, l.kickChan
	l.mu.Unlock()
	if col == nil {
		return
	}
	col.SetWindow(start, end)
	if kick != nil {
		select {
		case kick <- struct{}{}:
		default:
		}
	}
}

// Stop requests graceful termination and waits for the worker to
// finish its current file. Stopping an idle loader is a no-op; a Stop
// that races another Stop waits for the same worker exit, so every
// caller returns with the loader provably idle.
func (l *Loader) Stop() {
	l.mu.Lock()
	if l.state == Idle {
		l.mu.Unlock()
		return
	}
	if l.state == Running {
		l.state = StopRequested
		close(l.stopChan)
	}
	done := l.doneChan
	l.mu.Unlock()

	<-done
}

func (l *Loader) run(col *Collection, dir string, stop <-chan struct{}, kick <-chan struct{}, done chan<- struct{}) {
	defer func() {
		l.mu.Lock()
		l.state = Idle
		l.mu.Unlock()
		logging.Debug("Thumbnail loader for %s idle", dir)
		close(done)
	}()

	for {
		select {
		case <-stop:
			return
		default:
		}

		i, ok := col.nextPending()
		if !ok {
			// Window exhausted; sleep until the window moves or
			// a stop arrives.
			select {
			case <-stop:
				return
			case <-kick:
				continue
			}
		}
		l.loadOne(col, i)
	}
}

// loadOne decodes a single thumbnail and commits the result to its
// record. Failures are absorbed here; the loader keeps going.
func (l *Loader) loadOne(col *Collection, index int) {
	rec := col.At(index)
	if rec == nil {
		return
	}
	path := rec.File().Path()

	img, source, err := l.decodeThumbnail(path, col.MaxSide())
	if err != nil {
		logging.Debug("Thumbnail for %s failed: %v", path, err)
		metrics.ThumbnailFailuresTotal.Inc()
		rec.SetExists(false)
		return
	}

	rec.SetImage(img)
	metrics.ThumbnailLoadsTotal.WithLabelValues(source).Inc()
	if l.onUpdate != nil {
		l.onUpdate(index, rec.File())
	}
}

// decodeThumbnail tries the embedded EXIF preview first, then a vips
// thumbnail when available, then a full decode plus downscale.
func (l *Loader) decodeThumbnail(path string, maxSide int) (image.Image, string, error) {
	if d, err := l.cache.Get(path); err == nil && d.HasThumbnail() {
		if img, err := d.Thumbnail(); err == nil && img != nil {
			return media.FitToSide(orientEmbedded(img, d), maxSide, media.InterpArea), "embedded", nil
		}
		logging.Debug("embedded thumbnail of %s is unreadable", path)
	}

	if media.IsVipsAvailable() {
		if img, err := media.ThumbnailWithVips(path, maxSide); err == nil {
			return img, "vips", nil
		}
	}

	img, err := media.Decode(path)
	if err != nil {
		return nil, "", err
	}
	return media.FitToSide(img, maxSide, media.InterpArea), "full", nil
}

// orientEmbedded rotates a raw embedded preview into display
// orientation. Unlike the full decode path, the preview bytes are
// stored unrotated, so the file's orientation tag must be applied here.
func orientEmbedded(img image.Image, d *meta.Data) image.Image {
	if d.Orientation > 1 {
		return media.ApplyOrientation(img, d.Orientation)
	}
	return img
}
