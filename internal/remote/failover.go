package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/glowup/internal/logger"
)

// ExhaustedError is returned when every candidate backend failed. Attempts holds one error
// per candidate, in the order they were tried.
type ExhaustedError struct {
	Op       string
	Attempts []error
}

func (e *ExhaustedError) Error() string {
	msgs := make([]string, len(e.Attempts))
	for i, err := range e.Attempts {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s failed on all %d backends: %s", e.Op, len(e.Attempts), strings.Join(msgs, "; "))
}

func (e *ExhaustedError) Unwrap() []error { return e.Attempts }

// Failover tries an ordered list of backends and returns the first success
type Failover struct {
	candidates []Backend
}

func NewFailover(candidates ...Backend) *Failover {
	return &Failover{candidates: candidates}
}

func (f *Failover) try(ctx context.Context, op string, fn func(Backend) error) error {
	if len(f.candidates) == 0 {
		return &ExhaustedError{Op: op}
	}
	attempts := make([]error, 0, len(f.candidates))
	for i, b := range f.candidates {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, err)
			break
		}
		err := fn(b)
		if err == nil {
			return nil
		}
		// a missing key is an answer, not a failure
		if errors.Is(err, ErrNotFound) {
			return err
		}
		logger.Debug("remote backend failed, trying next", "op", op, "candidate", i, "error", err)
		attempts = append(attempts, fmt.Errorf("backend %d: %w", i, err))
	}
	return &ExhaustedError{Op: op, Attempts: attempts}
}

func (f *Failover) Load(ctx context.Context, key string) (Record, error) {
	var out Record
	err := f.try(ctx, "load", func(b Backend) error {
		r, err := b.Load(ctx, key)
		if err == nil {
			out = r
		}
		return err
	})
	return out, err
}

func (f *Failover) Save(ctx context.Context, key, value string) error {
	return f.try(ctx, "save", func(b Backend) error { return b.Save(ctx, key, value) })
}

func (f *Failover) Ping(ctx context.Context) error {
	return f.try(ctx, "ping", func(b Backend) error { return b.Ping(ctx) })
}

func (f *Failover) Close() error {
	var errs []error
	for _, b := range f.candidates {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
