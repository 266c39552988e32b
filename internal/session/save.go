package session

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"image-viewer/internal/catalog"
	"image-viewer/internal/imagetypes"
	"image-viewer/internal/logging"
	"image-viewer/internal/media"
	"image-viewer/internal/metrics"
)

// SaveFile encodes img to path in the background. A nil img saves the
// current image. The target format follows the path's extension. On
// success the cursor moves to the saved file, a suppression marker is
// armed so the watcher ignores the self-write, and the index is
// rebuilt when the target lives in the bound directory. On failure
// nothing in the session changes.
func (s *Session) SaveFile(path string, img image.Image, compression int, policy Notify) {
	if img == nil {
		img = s.CurrentImage()
	}
	if img == nil {
		s.saveFailed(path, fmt.Errorf("nothing to save"), policy)
		return
	}
	if path == "" {
		s.saveFailed(path, ErrInvalidPath, policy)
		return
	}
	if !imagetypes.CanWrite(path) {
		s.saveFailed(path, media.ErrUnsupportedFormat, policy)
		return
	}
	go s.saveAsync(path, img, compression, policy)
}

func (s *Session) saveAsync(path string, img image.Image, compression int, policy Notify) {
	s.ioSem <- struct{}{}
	defer func() { <-s.ioSem }()

	if err := media.Save(path, img, compression); err != nil {
		s.saveFailed(path, err, policy)
		return
	}

	// arm the marker only after the bytes are on disk, so its lifetime
	// starts at write completion
	if s.watcher != nil {
		s.watcher.Suppress(path)
	}
	metrics.SessionSavesTotal.WithLabelValues("success").Inc()
	s.metaCache.Invalidate(path)

	ref := catalog.NewExistingFileRef(path)
	s.mu.Lock()
	s.file = ref
	s.lastLoaded = ref
	s.img = img
	s.dirty = false
	sameDir := s.index != nil && ref.Dir() == s.index.Dir()
	if !sameDir {
		s.saveDir = ref.Dir()
	}
	s.mu.Unlock()

	logging.Info("Saved %s", path)
	if sameDir {
		// the saved file may be new to the sequence
		s.rebuildIndex()
	}
	s.post(Event{Kind: FileUpdated, File: ref, Size: fileSize(path)})
}

func (s *Session) saveFailed(path string, err error, policy Notify) {
	metrics.SessionSavesTotal.WithLabelValues("error").Inc()
	logging.Error("Could not save %s: %v", path, err)
	if policy.NotifyUser {
		s.post(Event{
			Kind:    ErrorDialog,
			Title:   "Error",
			Message: fmt.Sprintf("Sorry, I could not save %s", filepath.Base(path)),
		})
	}
}

// DeleteFile removes the current file from disk in the background and
// advances the cursor to the nearest surviving neighbor. On failure
// the session is left unchanged.
func (s *Session) DeleteFile(policy Notify) {
	s.mu.Lock()
	cur := s.file
	s.mu.Unlock()
	if cur.IsZero() {
		return
	}
	go s.deleteAsync(cur, policy)
}

func (s *Session) deleteAsync(cur catalog.FileRef, policy Notify) {
	s.ioSem <- struct{}{}
	defer func() { <-s.ioSem }()

	if err := os.Remove(cur.Path()); err != nil {
		metrics.SessionDeletesTotal.WithLabelValues("error").Inc()
		logging.Error("Could not delete %s: %v", cur.Path(), err)
		if policy.NotifyUser {
			s.post(Event{
				Kind:    ErrorDialog,
				Title:   "Error",
				Message: fmt.Sprintf("Sorry, I could not delete %s", cur.Name()),
			})
		}
		return
	}

	if s.watcher != nil {
		s.watcher.Suppress(cur.Path())
	}
	metrics.SessionDeletesTotal.WithLabelValues("success").Inc()
	s.metaCache.Invalidate(cur.Path())
	if s.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		if err := s.store.Remove(ctx, cur.Path()); err != nil {
			logging.Warn("Could not drop stored edits for %s: %v", cur.Path(), err)
		}
		cancel()
	}
	logging.Info("Deleted %s", cur.Path())

	// pick the successor from the index as it was before the delete
	s.mu.Lock()
	idx := s.index
	s.mu.Unlock()
	var next catalog.FileRef
	if idx != nil {
		if i, ok := idx.IndexOf(cur); ok {
			if n, ok := idx.Neighbor(i, 1); ok {
				next = n
			} else if n, ok := idx.Neighbor(i, -1); ok {
				next = n
			}
		}
	}

	s.rebuildIndex()
	if !next.IsZero() {
		s.Load(next, policy)
	}
}

// RotateImage rotates the in-memory buffer by angle degrees
// counter-clockwise. Nothing is persisted; the session is marked dirty
// for a subsequent explicit save.
func (s *Session) RotateImage(angle float64) {
	s.mu.Lock()
	if s.img == nil {
		s.mu.Unlock()
		return
	}
	s.img = media.Rotate(s.img, angle)
	s.dirty = true
	file := s.file
	s.mu.Unlock()
	s.post(Event{Kind: ImageUpdated, File: file})
}

// SaveRating persists a 0-5 star rating for the current file.
func (s *Session) SaveRating(rating int, policy Notify) {
	s.mu.Lock()
	cur := s.file
	s.mu.Unlock()
	if cur.IsZero() || s.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := s.store.SetRating(ctx, cur.Path(), rating); err != nil {
			logging.Error("Could not store rating for %s: %v", cur.Path(), err)
			if policy.NotifyUser {
				s.post(Event{
					Kind:    ErrorDialog,
					Title:   "Error",
					Message: fmt.Sprintf("Sorry, I could not rate %s", cur.Name()),
				})
			}
			return
		}
		logging.Debug("Rated %s: %d", cur.Name(), rating)
	}()
}
