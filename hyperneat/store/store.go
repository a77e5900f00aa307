// Package store persists genome records. A memory backend serves tests and
// one-shot runs; the sqlite backend keeps records across processes.
package store

import (
	"context"
	"fmt"

	"github.com/baldhumanity/es-hyperneat-go/hyperneat"
	"github.com/google/uuid"
)

// Store saves and loads structural genome records by id.
type Store interface {
	Init(ctx context.Context) error
	// SaveGenome stores r under id, replacing any previous record. An empty id
	// is replaced by a fresh UUID. The id used is returned.
	SaveGenome(ctx context.Context, id string, r hyperneat.Record) (string, error)
	GetGenome(ctx context.Context, id string) (hyperneat.Record, bool, error)
	ListGenomes(ctx context.Context) ([]string, error)
	DeleteGenome(ctx context.Context, id string) error
	Close() error
}

// NewStore returns an uninitialised store of the given kind.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
