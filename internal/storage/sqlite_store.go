package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/glowup/internal/logger"
	"github.com/julianstephens/glowup/internal/migration"
	"github.com/julianstephens/glowup/migrations"
)

// SQLiteStore keeps every key as a row in the kv table
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := s.open(); err != nil {
		return err
	}
	if _, err := s.runner().Apply(context.Background()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return ErrNotInitialized
	}
	if err := s.open(); err != nil {
		return err
	}
	ctx := context.Background()
	if err := s.runner().Validate(ctx); err != nil {
		return err
	}
	// Older databases pick up new migrations transparently
	if _, err := s.runner().Apply(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; the store serializes mutations anyway
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", "PRAGMA synchronous=NORMAL"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return fmt.Errorf("failed to set %q: %w", pragma, err)
		}
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) runner() *migration.Runner {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		// embed paths are fixed at compile time
		panic(err)
	}
	return migration.NewRunner(s.db, sub, migration.SQLite)
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	// Fold the WAL back into the main file so backups and copies see every write
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		logger.Warn("WAL checkpoint failed", "path", s.path, "error", err)
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	if s.db == nil {
		return "", false, ErrNotInitialized
	}
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	if s.db == nil {
		return ErrNotInitialized
	}
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Remove(key string) error {
	if s.db == nil {
		return ErrNotInitialized
	}
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}

// GetDB exposes the underlying handle for diagnostics
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

// SchemaVersion reports the applied and the newest known migration versions
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, ErrNotInitialized
	}
	r := s.runner()
	if current, err = r.Current(ctx); err != nil {
		return 0, 0, err
	}
	if latest, err = r.Latest(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}
