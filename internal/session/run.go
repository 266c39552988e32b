package session

import (
	"context"
	"path/filepath"

	"image-viewer/internal/catalog"
	"image-viewer/internal/logging"
	"image-viewer/internal/watch"
)

// Run drains the watcher until ctx is done. It is the single consumer
// of filesystem change events: every index rebuild they trigger
// happens here, on one logical owner, so watcher timing can never race
// a rebuild against itself.
func (s *Session) Run(ctx context.Context) {
	if s.watcher == nil {
		<-ctx.Done()
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events():
			if !ok {
				return
			}
			s.handleWatchEvent(ev)
		}
	}
}

func (s *Session) handleWatchEvent(ev watch.Event) {
	s.mu.Lock()
	s.folderUpd = true
	cur := s.file
	idx := s.index
	col := s.thumbs
	s.mu.Unlock()

	switch ev.Kind {
	case watch.DirectoryChanged:
		logging.Debug("Directory %s changed externally, rebuilding index", ev.Path)
		s.rebuildIndex()

	case watch.FileChanged:
		path := filepath.Clean(ev.Path)
		logging.Debug("File %s changed externally", path)
		s.metaCache.Invalidate(path)

		// rewritten pixels invalidate the file's thumbnail
		if idx != nil && col != nil {
			if i, ok := idx.IndexOfPath(path); ok {
				if rec := col.At(i); rec != nil {
					rec.Invalidate()
				}
				start, end := col.Window()
				s.loader.SetLoadLimits(start, end)
			}
		}

		s.mu.Lock()
		s.folderUpd = false
		s.mu.Unlock()

		if !cur.IsZero() && cur.Path() == path {
			logging.Info("Current file %s changed on disk, reloading", cur.Name())
			s.Load(cur, Silent)
		}
		s.post(Event{Kind: FileUpdated, File: catalog.NewExistingFileRef(path), Size: fileSize(path)})
	}
}
