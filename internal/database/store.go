package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"image-viewer/internal/logging"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// Store persists per-file metadata edits: rating, orientation override, and
// the horizontal-flip flag. Image files themselves are never rewritten;
// edits live in this sidecar database keyed by absolute path.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// FileMeta is one file's persisted edits.
type FileMeta struct {
	Path        string
	Rating      int
	Orientation int
	Flipped     bool
}

// Open creates (or opens) the sidecar database at dbPath. The parent
// directory must exist and be writable.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	logging.Info("Metadata store path: %s", dbPath)

	// WAL keeps readers unblocked while the session writes ratings;
	// busy_timeout prevents "database is locked" on concurrent edits.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata store: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close store after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to metadata store: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close store after schema failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize metadata schema: %w", err)
	}

	logging.Info("Metadata store ready at %s", dbPath)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS file_meta (
		path TEXT PRIMARY KEY,
		rating INTEGER NOT NULL DEFAULT 0,
		orientation INTEGER NOT NULL DEFAULT 0,
		flipped INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_file_meta_rating ON file_meta(rating);
	`

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the persisted edits for path. A file with no edits yields the
// zero FileMeta for that path, not an error.
func (s *Store) Get(ctx context.Context, path string) (FileMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := FileMeta{Path: path}
	var flipped int
	err := s.db.QueryRowContext(ctx,
		"SELECT rating, orientation, flipped FROM file_meta WHERE path = ?", path).
		Scan(&m.Rating, &m.Orientation, &flipped)
	if errors.Is(err, sql.ErrNoRows) {
		return m, nil
	}
	if err != nil {
		return m, err
	}
	m.Flipped = flipped != 0
	return m, nil
}

// SetRating persists a 0-5 star rating for path.
func (s *Store) SetRating(ctx context.Context, path string, rating int) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("rating %d out of range [0,5]", rating)
	}
	return s.upsert(ctx, path, "rating", rating)
}

// SetOrientation persists an orientation override (EXIF values 1..8, or 0 to
// clear) for path.
func (s *Store) SetOrientation(ctx context.Context, path string, orientation int) error {
	if orientation < 0 || orientation > 8 {
		return fmt.Errorf("orientation %d out of range [0,8]", orientation)
	}
	return s.upsert(ctx, path, "orientation", orientation)
}

// SetFlipped persists the horizontal-flip flag for path.
func (s *Store) SetFlipped(ctx context.Context, path string, flipped bool) error {
	v := 0
	if flipped {
		v = 1
	}
	return s.upsert(ctx, path, "flipped", v)
}

func (s *Store) upsert(ctx context.Context, path, column string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// column names come from the three fixed setters above
	query := fmt.Sprintf(`
		INSERT INTO file_meta (path, %s, updated_at) VALUES (?, ?, strftime('%%s', 'now'))
		ON CONFLICT(path) DO UPDATE SET %s = excluded.%s, updated_at = excluded.updated_at
	`, column, column, column)

	_, err := s.db.ExecContext(ctx, query, path, value)
	return err
}

// Remove drops the persisted edits for path (e.g., after the file is deleted).
func (s *Store) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, "DELETE FROM file_meta WHERE path = ?", path)
	return err
}

// Rename moves the persisted edits from oldPath to newPath, keeping edits
// attached across a save-as.
func (s *Store) Rename(ctx context.Context, oldPath, newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		"UPDATE OR REPLACE file_meta SET path = ? WHERE path = ?", newPath, oldPath)
	return err
}
