// Package blob stores opaque media bytes by id, outside the entity document.
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidID = errors.New("invalid blob id")

// Store saves, fetches and deletes blobs. Get reports false for an unknown id and Delete of
// an unknown id is not an error.
type Store interface {
	Save(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, bool, error)
	Delete(ctx context.Context, id string) error
}

func checkID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
