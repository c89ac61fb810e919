package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/glowup/internal/blob"
	"github.com/julianstephens/glowup/internal/clock"
	"github.com/julianstephens/glowup/internal/config"
	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/keyring"
	"github.com/julianstephens/glowup/internal/lock"
	"github.com/julianstephens/glowup/internal/logger"
	"github.com/julianstephens/glowup/internal/remote"
	"github.com/julianstephens/glowup/internal/storage"
	"github.com/julianstephens/glowup/internal/store"
	"github.com/julianstephens/glowup/internal/syncq"
)

// ErrNoRemote is returned by commands that need a remote when remote.driver is none
var ErrNoRemote = errors.New("no remote configured, set remote.driver")

type Context struct {
	Config *config.Config
	Clock  clock.Clock
	KV     storage.Provider
	Store  *store.Store
	Queue  *syncq.Queue
	// Out receives command output, In answers confirmations
	Out io.Writer
	In  io.Reader

	lock   *lock.Lock
	opened bool
	// archived counts days filed by the check that runs when the store is opened
	archived int
}

func NewContext(cfg *config.Config, c clock.Clock) (*Context, error) {
	if c == nil {
		c = clock.Real{}
	}
	kv, err := storage.New(cfg.Storage.Driver, cfg.DatabasePath())
	if err != nil {
		return nil, err
	}
	return &Context{
		Config: cfg,
		Clock:  c,
		KV:     kv,
		Store:  store.New(kv, store.WithClock(c)),
		Queue:  syncq.NewQueue(kv, c),
		Out:    os.Stdout,
		In:     os.Stdin,
	}, nil
}

// Open locks the data directory and loads the document and the sync queue
func (c *Context) Open() error {
	if c.opened {
		return nil
	}
	if err := c.acquire(); err != nil {
		return err
	}
	if err := c.KV.Load(); err != nil {
		return err
	}
	return c.load()
}

// Create initializes the database before loading, for the init command
func (c *Context) Create() error {
	if c.opened {
		return nil
	}
	if err := c.acquire(); err != nil {
		return err
	}
	if err := c.KV.Init(); err != nil {
		return err
	}
	return c.load()
}

func (c *Context) acquire() error {
	if c.lock != nil {
		return nil
	}
	l, err := lock.Acquire(c.Config.DataDir)
	if err != nil {
		return err
	}
	c.lock = l
	return nil
}

func (c *Context) load() error {
	if err := c.Store.Load(); err != nil {
		return err
	}
	if err := c.Queue.Load(); err != nil {
		return err
	}
	if len(c.Config.RemoteDrivers()) > 0 {
		c.Store.Subscribe(c.Queue.Record)
	}
	c.opened = true

	// a failed check leaves lastSeenDate alone, so the next start retries it
	n, err := newArchiver(c).Check()
	if err != nil {
		logger.Warn("archive check at startup failed", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: archive check failed: %v\n", err)
		return nil
	}
	c.archived = n
	return nil
}

// Close releases the database and the lock. It is safe to call more than once.
func (c *Context) Close() error {
	err := c.KV.Close()
	if c.lock != nil {
		if rerr := c.lock.Release(); rerr != nil {
			logger.Warn("failed to release lock", "path", c.lock.Path(), "error", rerr)
		}
		c.lock = nil
	}
	c.opened = false
	return err
}

// Backend connects the configured remotes. More than one driver yields a failover that
// tries them in the configured order.
func (c *Context) Backend(ctx context.Context) (remote.Backend, error) {
	drivers := c.Config.RemoteDrivers()
	if len(drivers) == 0 {
		return nil, ErrNoRemote
	}
	backends := make([]remote.Backend, 0, len(drivers))
	for _, d := range drivers {
		b, err := c.openBackend(ctx, d)
		if err != nil {
			for _, opened := range backends {
				opened.Close()
			}
			return nil, fmt.Errorf("remote %s: %w", d, err)
		}
		backends = append(backends, b)
	}
	if len(backends) == 1 {
		return backends[0], nil
	}
	return remote.NewFailover(backends...), nil
}

func (c *Context) openBackend(ctx context.Context, driver string) (remote.Backend, error) {
	switch driver {
	case "http":
		token, err := keyring.Lookup(keyring.HTTP)
		if err != nil {
			logger.Warn("keyring unavailable, connecting without a token", "error", err)
		}
		return remote.NewHTTP(c.Config.Remote.URL, token, c.Config.Remote.Timeout), nil
	case "postgres":
		return c.openPostgres(ctx)
	case "redis":
		return c.openRedis()
	}
	return nil, fmt.Errorf("unknown remote driver %q", driver)
}

// openPostgres prefers the keyring connection string, which may carry a password, over
// remote.url, which may not
func (c *Context) openPostgres(ctx context.Context) (*remote.Postgres, error) {
	connStr, err := keyring.Lookup(keyring.Postgres)
	if err != nil {
		logger.Warn("keyring unavailable, falling back to remote.url", "error", err)
	}
	if connStr == "" {
		connStr = c.Config.Remote.URL
	}
	if connStr == "" {
		return nil, errors.New("no connection string, run 'glowup keyring set postgres <url>' or set remote.url")
	}
	pg := remote.NewPostgres(connStr)
	ctx, cancel := context.WithTimeout(ctx, c.Config.Remote.Timeout)
	defer cancel()
	if err := pg.Open(ctx); err != nil {
		return nil, err
	}
	return pg, nil
}

func (c *Context) openRedis() (*remote.Redis, error) {
	password, err := keyring.Lookup(keyring.Redis)
	if err != nil {
		logger.Warn("keyring unavailable, connecting without a password", "error", err)
	}
	return remote.NewRedis(remote.RedisOptions{
		Addr:     c.Config.Redis.Addr,
		Username: c.Config.Redis.Username,
		Password: password,
		DB:       c.Config.Redis.DB,
		Prefix:   c.Config.Redis.Prefix,
	}), nil
}

// Blobs opens the configured preview store
func (c *Context) Blobs(ctx context.Context) (blob.Store, error) {
	b := c.Config.Blob
	switch b.Driver {
	case "s3":
		return blob.NewS3(ctx, blob.S3Options{Bucket: b.Bucket, Prefix: b.Prefix, Profile: b.Profile, Region: b.Region})
	case "memory":
		return blob.NewMemory(), nil
	default:
		return blob.NewFS(c.Config.BlobDir())
	}
}

// resolveDate accepts YYYY-MM-DD, "today" and "yesterday"
func (c *Context) resolveDate(s string) (string, error) {
	today := clock.Today(c.Clock)
	switch s {
	case "", "today":
		return today, nil
	case "yesterday":
		return clock.AddDays(today, -1)
	}
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD, today or yesterday)", s)
	}
	return s, nil
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// confirm asks a yes/no question, defaulting to no. A terminal gets a huh prompt; anything
// else is read as a line.
func (c *Context) confirm(question string) (bool, error) {
	if f, ok := c.In.(*os.File); ok && isTerminal(f) {
		var yes bool
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&yes),
		)).Run()
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return yes, err
	}

	c.printf("%s [y/N]: ", question)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
