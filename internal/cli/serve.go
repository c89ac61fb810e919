package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/glowup/internal/keyring"
	"github.com/julianstephens/glowup/internal/logger"
	"github.com/julianstephens/glowup/internal/remote"
	"github.com/julianstephens/glowup/internal/server"
)

// ServeCmd runs the sync server other instances reach through the http remote
type ServeCmd struct {
	Addr string `help:"Listen address; defaults to server.addr."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := c.backend(runCtx, ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	token, err := keyring.Lookup(keyring.HTTP)
	if err != nil {
		logger.Warn("keyring unavailable", "error", err)
	}
	if token == "" {
		logger.Warn("no http token in the keyring, the server accepts anonymous clients")
	}

	addr := c.Addr
	if addr == "" {
		addr = ctx.Config.Server.Addr
	}
	srv := server.New(backend, server.Config{Addr: addr, Token: token, Debug: ctx.Config.Debug})
	return srv.Run(runCtx)
}

func (c *ServeCmd) backend(bg context.Context, ctx *Context) (remote.Backend, error) {
	switch ctx.Config.Server.Backend {
	case "memory":
		return remote.NewMemory(), nil
	case "postgres":
		return ctx.openPostgres(bg)
	case "redis":
		return ctx.openRedis()
	}
	return nil, fmt.Errorf("unknown server.backend %q", ctx.Config.Server.Backend)
}
