// Package storage provides the durable key-value stores the entity store persists into.
package storage

import "errors"

// ErrNotInitialized is returned when a store is used before Init or Load
var ErrNotInitialized = errors.New("storage not initialized, run 'glowup init' first")

// Provider is a durable string key-value store
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Get returns the value for key and whether it exists
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error

	// Utils
	Path() string
}

// New selects a provider by driver name. path is a database file for "sqlite" and a
// directory for "file"; it is ignored for "memory".
func New(driver, path string) (Provider, error) {
	switch driver {
	case "", "sqlite":
		return NewSQLiteStore(path), nil
	case "file", "json":
		return NewJSONStore(path), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, errors.New("unknown storage driver " + driver)
	}
}
