package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"time"

	"image-viewer/internal/catalog"
	"image-viewer/internal/logging"
	"image-viewer/internal/media"
	"image-viewer/internal/metrics"
)

// ErrInvalidPath is reported for empty or nonexistent load targets.
var ErrInvalidPath = errors.New("invalid path")

const (
	// loadingNoticeDelay is how long a load may take before the
	// display shows a "loading" notice.
	loadingNoticeDelay = 2 * time.Second

	infoDisplayDuration = 3 * time.Second

	storeTimeout = 5 * time.Second
)

// Load requests the file asynchronously and returns immediately. The
// result is committed only if no newer Load was issued meanwhile, so
// the last requested file always wins. On failure the previous image
// stays (rollback to last-known-good) and a FileNotLoaded event fires;
// with Interactive policy an ErrorDialog fires too.
func (s *Session) Load(file catalog.FileRef, policy Notify) {
	if file.IsZero() {
		s.loadFailed(file, ErrInvalidPath, policy)
		return
	}
	gen := s.gen.Add(1)
	s.post(Event{
		Kind:    DelayedInfoMessage,
		Message: fmt.Sprintf("loading %s...", file.Name()),
		Delay:   loadingNoticeDelay,
	})
	go s.loadAsync(file, gen, policy)
}

func (s *Session) loadAsync(file catalog.FileRef, gen uint64, policy Notify) {
	s.ioSem <- struct{}{}
	defer func() { <-s.ioSem }()

	start := time.Now()
	img, err := s.decodeForDisplay(file.Path())

	// cancel a still-pending loading notice
	s.post(Event{Kind: DelayedInfoMessage})

	if gen != s.gen.Load() {
		logging.Debug("Load of %s superseded, discarding", file.Name())
		metrics.SessionLoadsTotal.WithLabelValues("superseded").Inc()
		return
	}
	if err != nil {
		s.loadFailed(file, err, policy)
		return
	}

	committed := false
	s.mu.Lock()
	// re-check under the lock so an older decode can never overwrite
	// a newer one that committed first
	if gen == s.gen.Load() {
		s.img = img
		s.file = file
		s.lastLoaded = file
		s.dirty = false
		committed = true
	}
	s.mu.Unlock()

	if !committed {
		metrics.SessionLoadsTotal.WithLabelValues("superseded").Inc()
		return
	}
	metrics.SessionLoadsTotal.WithLabelValues("success").Inc()
	metrics.SessionLoadDuration.Observe(time.Since(start).Seconds())
	logging.Debug("Loaded %s in %v", file.Name(), time.Since(start))

	s.post(Event{Kind: ImageUpdated, File: file})
	s.post(Event{Kind: FileUpdated, File: file, Size: fileSize(file.Path())})
}

// decodeForDisplay produces the image the way the display needs it:
// decoded, EXIF-oriented, and with any persisted rotation or flip
// override applied on top.
func (s *Session) decodeForDisplay(path string) (image.Image, error) {
	img, err := media.Decode(path)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		fm, err := s.store.Get(ctx, path)
		cancel()
		if err != nil {
			logging.Warn("Cannot read stored edits for %s: %v", path, err)
		} else {
			if fm.Orientation > 1 {
				img = media.ApplyOrientation(img, fm.Orientation)
			}
			if fm.Flipped {
				img = media.FlipH(img)
			}
		}
	}
	return img, nil
}

// loadFailed reports a failed load. Session state is left at the last
// known good image; only the cursor is reverted if it already pointed
// at the failed target. The revert target must still exist on disk,
// otherwise the cursor empties instead of pointing at a ghost.
func (s *Session) loadFailed(file catalog.FileRef, err error, policy Notify) {
	metrics.SessionLoadsTotal.WithLabelValues("error").Inc()
	logging.Error("Could not load %s: %v", file.Path(), err)

	s.mu.Lock()
	if s.file.Equal(file) && !s.lastLoaded.IsZero() && !s.lastLoaded.Equal(file) {
		if fileExists(s.lastLoaded.Path()) {
			s.file = s.lastLoaded
		} else {
			s.file = catalog.FileRef{}
			s.img = nil
			s.dirty = false
		}
	}
	s.mu.Unlock()

	s.post(Event{Kind: FileNotLoaded, File: file})
	if policy.NotifyUser {
		s.post(Event{
			Kind:    ErrorDialog,
			Title:   "Error",
			Message: fmt.Sprintf("Sorry, I could not load %s: %s", file.Name(), loadFailureReason(err)),
		})
	}
}

// loadFailureReason turns the error taxonomy into a sentence fragment
// suitable for a dialog.
func loadFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPath), errors.Is(err, fs.ErrNotExist):
		return "the file does not exist"
	case errors.Is(err, media.ErrUnsupportedFormat):
		return "the format is not supported"
	case errors.Is(err, media.ErrCorruptData):
		return "the file appears to be damaged"
	case media.IsIOFailure(err):
		return "the file could not be read"
	default:
		return err.Error()
	}
}

// ChangeFile moves the cursor by skip positions and loads the target.
// Past either end it is a no-op; unless the policy is Silent, a
// "no more images" notice is posted.
func (s *Session) ChangeFile(skip int, policy Notify) {
	direction := "jump"
	switch {
	case skip > 0:
		direction = "forward"
	case skip < 0:
		direction = "backward"
	}
	metrics.SessionNavigationsTotal.WithLabelValues(direction).Inc()

	s.mu.Lock()
	idx := s.index
	cur := s.file
	s.mu.Unlock()

	if idx == nil || idx.Len() == 0 {
		if policy.NotifyUser {
			s.post(Event{Kind: InfoMessage, Message: "no images in this folder", Position: PositionBottomLeft, Duration: infoDisplayDuration})
		}
		return
	}

	var target catalog.FileRef
	if cur.IsZero() {
		// nothing loaded yet: enter the sequence at the nearest end
		if skip >= 0 {
			target = idx.At(0)
		} else {
			target = idx.At(idx.Len() - 1)
		}
	} else {
		i, found := idx.IndexOf(cur)
		if !found {
			// cursor file vanished between rebuilds; restart at the front
			target = idx.At(0)
		} else {
			var ok bool
			target, ok = idx.Neighbor(i, skip)
			if !ok {
				logging.Debug("No neighbor at offset %d from %s", skip, cur.Name())
				if policy.NotifyUser {
					s.post(Event{Kind: InfoMessage, Message: "no more images", Position: PositionBottomLeft, Duration: infoDisplayDuration})
				}
				return
			}
		}
	}
	s.Load(target, policy)
}

// NextFile loads the following file in the index.
func (s *Session) NextFile(policy Notify) { s.ChangeFile(1, policy) }

// PreviousFile loads the preceding file in the index.
func (s *Session) PreviousFile(policy Notify) { s.ChangeFile(-1, policy) }

// LoadFileAt jumps to position i of the index and loads the file
// there. Out-of-range positions post a notice under Interactive policy
// and move nothing.
func (s *Session) LoadFileAt(i int, policy Notify) {
	s.jumpTo(i, "jump", policy)
}

// FirstFile jumps to the start of the index.
func (s *Session) FirstFile(policy Notify) {
	s.jumpTo(0, "first", policy)
}

// LastFile jumps to the end of the index.
func (s *Session) LastFile(policy Notify) {
	s.mu.Lock()
	n := 0
	if s.index != nil {
		n = s.index.Len()
	}
	s.mu.Unlock()
	s.jumpTo(n-1, "last", policy)
}

func (s *Session) jumpTo(i int, direction string, policy Notify) {
	metrics.SessionNavigationsTotal.WithLabelValues(direction).Inc()

	s.mu.Lock()
	idx := s.index
	s.mu.Unlock()

	if idx == nil || idx.Len() == 0 {
		if policy.NotifyUser {
			s.post(Event{Kind: InfoMessage, Message: "no images in this folder", Position: PositionBottomLeft, Duration: infoDisplayDuration})
		}
		return
	}
	if i < 0 || i >= idx.Len() {
		if policy.NotifyUser {
			s.post(Event{Kind: InfoMessage, Message: "no more images", Position: PositionBottomLeft, Duration: infoDisplayDuration})
		}
		return
	}
	s.Load(idx.At(i), policy)
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
