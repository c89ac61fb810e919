package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/logger"
	"github.com/julianstephens/glowup/internal/migration"
	"github.com/julianstephens/glowup/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// Postgres keeps one JSONB row per key in the user_data table
type Postgres struct {
	connStr string
	db      *sql.DB
}

// NewPostgres returns a backend for connStr. The connection string may carry a password
// because it comes from the keyring; configuration files must pass ValidateConnString.
func NewPostgres(connStr string) *Postgres {
	return &Postgres{connStr: withSearchPath(connStr)}
}

// withSearchPath pins the session schema to the app's own schema unless one is given
func withSearchPath(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}
	for _, part := range strings.Fields(connStr) {
		if k, _, ok := strings.Cut(part, "="); ok && strings.EqualFold(k, "search_path") {
			return connStr
		}
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

// ValidateConnString checks that connStr is a PostgreSQL URI or DSN without a password.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := u.User.Password(); isSet {
			return ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	for _, pair := range strings.Fields(connStr) {
		if k, _, ok := strings.Cut(pair, "="); ok && strings.EqualFold(strings.TrimSpace(k), "password") {
			return ErrEmbeddedCredentials
		}
	}
	return nil
}

// Open connects, creates the schema and applies pending migrations
func (p *Postgres) Open(ctx context.Context) error {
	db, err := sql.Open("postgres", p.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(constants.AppName)); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	sub, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		db.Close()
		return err
	}
	runner := migration.NewRunner(db, sub, migration.Postgres)
	if _, err := runner.Apply(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	p.db = db
	return nil
}

func (p *Postgres) Load(ctx context.Context, key string) (Record, error) {
	if p.db == nil {
		return Record{}, errors.New("postgres backend not opened")
	}
	var r Record
	err := p.db.QueryRowContext(ctx,
		`SELECT value::text, updated_at FROM user_data WHERE key = $1`, key,
	).Scan(&r.Value, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load %q: %w", key, err)
	}
	r.UpdatedAt = r.UpdatedAt.UTC()
	return r, nil
}

func (p *Postgres) Save(ctx context.Context, key, value string) error {
	if p.db == nil {
		return errors.New("postgres backend not opened")
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO user_data (key, value, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to save %q: %w", key, err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	if p.db == nil {
		return errors.New("postgres backend not opened")
	}
	return p.db.PingContext(ctx)
}

func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
