package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/glowup/internal/backup"
	"github.com/julianstephens/glowup/internal/blob"
	"github.com/julianstephens/glowup/internal/connectivity"
	"github.com/julianstephens/glowup/internal/logger"
	"github.com/julianstephens/glowup/internal/syncq"
)

// DaemonCmd keeps the archive current, imports snapshots dropped into the inbox and, when a
// remote is configured, pushes changes whenever it is reachable.
type DaemonCmd struct {
	NoSync bool `help:"Do not connect to the remote."`
}

func (c *DaemonCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if blobs, err := ctx.Blobs(runCtx); err != nil {
		logger.Warn("blob store unavailable, previews stay inline", "error", err)
	} else if n, err := blob.MigratePreviews(runCtx, ctx.Store, blobs); err != nil {
		logger.Warn("preview migration failed", "moved", n, "error", err)
	} else if n > 0 {
		logger.Info("moved previews to the blob store", "count", n)
	}

	inbox, err := backup.NewInbox(ctx.Config.InboxDir(), ctx.Store)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		newArchiver(ctx).Run(gctx, ctx.Config.Archive.Interval)
		return nil
	})
	g.Go(func() error { return inbox.Watch(gctx) })

	if !c.NoSync && len(ctx.Config.RemoteDrivers()) > 0 {
		backend, err := ctx.Backend(runCtx)
		if err != nil {
			logger.Warn("remote unavailable, changes stay queued", "error", err)
		} else {
			defer backend.Close()
			probe := connectivity.NewProbe(backend, ctx.Config.Sync.ProbeInterval, ctx.Config.Remote.Timeout)
			syncer := syncq.NewSyncer(ctx.Queue, backend, probe, ctx.Config.Remote.Key, ctx.Config.Remote.Timeout)
			ctx.Store.Subscribe(func([]byte) error { syncer.Trigger(); return nil })
			g.Go(func() error {
				probe.Run(gctx)
				return nil
			})
			g.Go(func() error {
				syncer.Run(gctx)
				return nil
			})
		}
	}

	logger.Info("daemon started", "dataDir", ctx.Config.DataDir, "inbox", inbox.Dir())
	err = g.Wait()
	logger.Info("daemon stopped")
	return err
}
