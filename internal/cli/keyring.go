package cli

import (
	"errors"

	"github.com/julianstephens/glowup/internal/keyring"
	"github.com/julianstephens/glowup/internal/logger"
	"github.com/julianstephens/glowup/internal/remote"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a remote secret in the OS keyring."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a remote secret from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Show which secrets are stored."`
}

type KeyringSetCmd struct {
	Account string `arg:"" help:"postgres, redis or http."`
	Secret  string `arg:"" help:"Connection string, password or token."`
}

func (c *KeyringSetCmd) Run(ctx *Context) error {
	account, err := keyring.ParseAccount(c.Account)
	if err != nil {
		return err
	}
	if account == keyring.Postgres {
		// the keyring is the one place a password may live, so only the format is checked
		if err := remote.ValidateConnString(c.Secret); err != nil && !errors.Is(err, remote.ErrEmbeddedCredentials) {
			return err
		}
	}
	if err := keyring.Set(account, c.Secret); err != nil {
		return err
	}
	logger.Info("stored keyring secret", "account", string(account))
	ctx.printf("✓ Stored %s secret in the OS keyring\n", c.Account)
	return nil
}

type KeyringDeleteCmd struct {
	Account string `arg:"" help:"postgres, redis or http."`
}

func (c *KeyringDeleteCmd) Run(ctx *Context) error {
	account, err := keyring.ParseAccount(c.Account)
	if err != nil {
		return err
	}
	if err := keyring.Delete(account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			ctx.printf("No %s secret stored.\n", c.Account)
			return nil
		}
		return err
	}
	ctx.printf("✓ Removed %s secret\n", c.Account)
	return nil
}

type KeyringStatusCmd struct{}

func (c *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	for _, account := range []keyring.Account{keyring.Postgres, keyring.Redis, keyring.HTTP} {
		secret, err := keyring.Lookup(account)
		if err != nil {
			return err
		}
		state := "not set"
		if secret != "" {
			state = "set"
		}
		ctx.printf("%-18s %s\n", account, state)
	}
	return nil
}
