package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/glowup/internal/archive"
	"github.com/julianstephens/glowup/internal/connectivity"
	apperr "github.com/julianstephens/glowup/internal/errors"
	"github.com/julianstephens/glowup/internal/remote"
	"github.com/julianstephens/glowup/internal/syncq"
)

func newArchiver(ctx *Context) *archive.Archiver {
	return archive.New(ctx.Store, ctx.Clock)
}

// connect opens the remote and probes it once. The caller closes the backend.
func connect(bg context.Context, ctx *Context) (remote.Backend, *syncq.Syncer, error) {
	backend, err := ctx.Backend(bg)
	if err != nil {
		return nil, nil, err
	}
	probe := connectivity.NewProbe(backend, ctx.Config.Sync.ProbeInterval, ctx.Config.Remote.Timeout)
	if !probe.Check(bg) {
		backend.Close()
		return nil, nil, apperr.ErrOffline
	}
	return backend, syncq.NewSyncer(ctx.Queue, backend, probe, ctx.Config.Remote.Key, ctx.Config.Remote.Timeout), nil
}

type SyncCmd struct {
	Push   SyncPushCmd   `cmd:"" default:"1" help:"Send queued changes to the remote."`
	Pull   SyncPullCmd   `cmd:"" help:"Fetch the remote document when it is newer."`
	Status SyncStatusCmd `cmd:"" help:"Show the sync queue."`
}

type SyncPushCmd struct {
	All bool `help:"Queue the current document even when nothing is pending."`
}

func (c *SyncPushCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	bg := context.Background()
	backend, syncer, err := connect(bg, ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	if c.All && ctx.Queue.Len() == 0 {
		data, err := ctx.Store.ExportData()
		if err != nil {
			return err
		}
		if _, err := ctx.Queue.EnqueueSnapshot(data); err != nil {
			return err
		}
	}
	n, err := syncer.Drain(bg)
	if err != nil {
		var syncErr *apperr.SyncError
		if errors.As(err, &syncErr) {
			return fmt.Errorf("sync stopped after %d entries: %w", n, err)
		}
		return err
	}
	ctx.printf("✓ Sent %d entries, %d left\n", n, ctx.Queue.Len())
	return nil
}

type SyncPullCmd struct{}

func (c *SyncPullCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	bg := context.Background()
	backend, syncer, err := connect(bg, ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	applied, err := syncer.Pull(bg, ctx.Store)
	if err != nil {
		return err
	}
	switch {
	case applied:
		ctx.printf("✓ Pulled the remote document\n")
	case ctx.Queue.Len() > 0:
		ctx.printf("Local changes are waiting to be pushed; run 'glowup sync push' first.\n")
	default:
		ctx.printf("Already up to date.\n")
	}
	return nil
}

type SyncStatusCmd struct{}

func (c *SyncStatusCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	entries := ctx.Queue.Entries()
	if len(entries) == 0 {
		ctx.printf("Sync queue is empty.\n")
		return nil
	}
	for _, e := range entries {
		ctx.printf("%s  %-8s %-8s attempts=%d enqueued=%s\n", e.ID, e.Kind, e.Status, e.Attempts, e.EnqueuedAt)
		if e.LastError != "" {
			ctx.printf("    last error: %s\n", e.LastError)
		}
	}
	return nil
}
