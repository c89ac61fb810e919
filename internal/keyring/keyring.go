// Package keyring keeps remote backend secrets in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/julianstephens/glowup/internal/constants"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound is returned when no secret is stored for an account
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Account names one stored secret
type Account string

const (
	// Postgres holds the full connection string, password included
	Postgres Account = constants.DefaultKeyringUser
	// Redis holds the redis password
	Redis Account = "redis-password"
	// HTTP holds the bearer token sent to a sync server
	HTTP Account = "http-token"
)

func ParseAccount(s string) (Account, error) {
	switch a := Account(s); a {
	case Postgres, Redis, HTTP:
		return a, nil
	case "postgres":
		return Postgres, nil
	case "redis":
		return Redis, nil
	case "http":
		return HTTP, nil
	}
	return "", fmt.Errorf("unknown keyring account %q: must be postgres, redis or http", s)
}

// Get retrieves the secret stored for account. Returns ErrNotFound if none is stored.
func Get(account Account) (string, error) {
	secret, err := keyring.Get(constants.AppName, string(account))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func Set(account Account, secret string) error {
	if secret == "" {
		return errors.New("secret cannot be empty")
	}
	if err := keyring.Set(constants.AppName, string(account), secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func Delete(account Account) error {
	err := keyring.Delete(constants.AppName, string(account))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Lookup returns the stored secret or "" when none is stored. Only an unavailable keyring
// is an error.
func Lookup(account Account) (string, error) {
	secret, err := Get(account)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return secret, err
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
