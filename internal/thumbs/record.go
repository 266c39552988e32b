package thumbs

import (
	"image"
	"sync"

	"image-viewer/internal/catalog"
)

// Status describes how far a thumbnail has progressed.
type Status int

const (
	// NotLoaded means no decode has been attempted yet, or the last
	// attempt was discarded by a window change.
	NotLoaded Status = iota
	// Loaded means the record holds decoded pixel data.
	Loaded
	// ExistsNot means the file is confirmed missing or undecodable.
	ExistsNot
)

func (s Status) String() string {
	switch s {
	case NotLoaded:
		return "not-loaded"
	case Loaded:
		return "loaded"
	case ExistsNot:
		return "exists-not"
	default:
		return "unknown"
	}
}

// Record is one file's thumbnail slot. The image is only present when
// the status is Loaded; SetExists(false) discards any pixel data so
// the two can never disagree.
type Record struct {
	mu      *sync.Mutex
	file    catalog.FileRef
	img     image.Image
	status  Status
	maxSide int
}

// File returns the file reference this record belongs to.
func (r *Record) File() catalog.FileRef { return r.file }

// MaxSide returns the maximal side length thumbnails are decoded to.
func (r *Record) MaxSide() int { return r.maxSide }

// SetImage stores decoded pixel data and marks the record Loaded.
// A nil image is ignored.
func (r *Record) SetImage(img image.Image) {
	if img == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.img = img
	r.status = Loaded
}

// Image returns the decoded pixel data, or nil while NotLoaded or
// ExistsNot. Callers treat a nil result as "not ready yet".
func (r *Record) Image() image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.img
}

// Status reports the record's current state.
func (r *Record) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Invalidate drops any pixel data so the loader decodes the file
// again, used when the file is rewritten on disk.
func (r *Record) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.img = nil
	r.status = NotLoaded
}

// SetExists marks the file present or missing. Marking a missing file
// drops any pixel data; marking it present again resets a previous
// ExistsNot back to NotLoaded so the loader will retry it.
func (r *Record) SetExists(exists bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !exists {
		r.img = nil
		r.status = ExistsNot
		return
	}
	if r.status == ExistsNot {
		r.status = NotLoaded
	}
}

// Collection holds one Record per directory entry plus the index
// window the display currently cares about. A single mutex guards the
// window bounds and every record; it is held per update, never across
// a decode.
type Collection struct {
	mu       sync.Mutex
	records  []*Record
	maxSide  int
	winStart int
	winEnd   int
}

// NewCollection builds one NotLoaded record per file. The window
// starts covering the whole sequence.
func NewCollection(files []catalog.FileRef, maxSide int) *Collection {
	c := &Collection{
		records: make([]*Record, len(files)),
		maxSide: maxSide,
		winEnd:  len(files),
	}
	for i, f := range files {
		c.records[i] = &Record{mu: &c.mu, file: f, maxSide: maxSide}
	}
	return c
}

// Len returns the number of records.
func (c *Collection) Len() int { return len(c.records) }

// MaxSide returns the maximal side length shared by all records.
func (c *Collection) MaxSide() int { return c.maxSide }

// At returns the record at index i, or nil when out of range.
func (c *Collection) At(i int) *Record {
	if i < 0 || i >= len(c.records) {
		return nil
	}
	return c.records[i]
}

// SetWindow narrows the index range of interest to [start, end).
// Bounds are clamped lazily when the loader scans, so callers may pass
// a range wider than the collection.
func (c *Collection) SetWindow(start, end int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.winStart = start
	c.winEnd = end
}

// Window returns the current index range of interest.
func (c *Collection) Window() (start, end int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.winStart, c.winEnd
}

// LoadedCount returns how many records currently hold pixel data.
func (c *Collection) LoadedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, r := range c.records {
		if r.status == Loaded {
			n++
		}
	}
	return n
}

// nextPending returns the first index inside the window whose record
// still needs a decode attempt.
func (c *Collection) nextPending() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	start, end := c.winStart, c.winEnd
	if start < 0 {
		start = 0
	}
	if end > len(c.records) {
		end = len(c.records)
	}
	for i := start; i < end; i++ {
		if c.records[i].status == NotLoaded {
			return i, true
		}
	}
	return 0, false
}
