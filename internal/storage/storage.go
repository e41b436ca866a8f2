// Package storage provides the durable key/value collaborator the reminder
// store persists into. Values are opaque text; callers own the encoding.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Store is a durable string key/value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	// SetMany writes all pairs or none of them.
	SetMany(ctx context.Context, values map[string]string) error
}
