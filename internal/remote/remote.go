// Package remote stores whole-document snapshots on a backend reachable over the network.
package remote

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Load when nothing is stored under the key
var ErrNotFound = errors.New("remote key not found")

// Record is a stored value and the time it was last written
type Record struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Backend persists one value per key. Save is an upsert of the whole value.
type Backend interface {
	Load(ctx context.Context, key string) (Record, error)
	Save(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}
