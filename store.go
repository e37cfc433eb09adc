package folio

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/folio/theme"
)

// PrefStore wraps a SQLite database holding one theme preference per visitor.
// It implements theme.Store.
type PrefStore struct {
	db *sql.DB
}

// NewPrefStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema migrations.
func NewPrefStore(path string) (*PrefStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the toggle handler write while pages read; the busy timeout
	// makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &PrefStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *PrefStore) Close() error {
	return s.db.Close()
}

func (s *PrefStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS preferences (
    visitor TEXT PRIMARY KEY,
    theme TEXT NOT NULL CHECK (theme IN ('light', 'dark')),
    updated_at TEXT NOT NULL
);
`)
	return err
}

// Load returns the stored theme for visitor.
func (s *PrefStore) Load(ctx context.Context, visitor string) (theme.Theme, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT theme FROM preferences WHERE visitor = ?`, visitor).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	t, err := theme.Parse(value)
	if err != nil {
		return "", false, err
	}
	return t, true, nil
}

// Save upserts the theme for visitor.
func (s *PrefStore) Save(ctx context.Context, visitor string, t theme.Theme) error {
	if !t.Valid() {
		return theme.ErrInvalidTheme
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO preferences (visitor, theme, updated_at) VALUES (?, ?, ?)`,
		visitor, t.String(), time.Now().UTC().Format(time.RFC3339))
	return err
}

// Count returns how many visitors have a stored preference.
func (s *PrefStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM preferences`).Scan(&n)
	return n, err
}

// DeleteOlderThan removes preferences not updated since cutoff.
func (s *PrefStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE updated_at < ?`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
