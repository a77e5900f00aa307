package store

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/baldhumanity/es-hyperneat-go/hyperneat"
)

var errNotInitialized = errors.New("store is not initialized")

// MemoryStore keeps records in a map for the lifetime of the process.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	genomes     map[string]hyperneat.Record
}

// NewMemoryStore returns an empty store; call Init before use.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Init resets the store to empty.
func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.genomes = make(map[string]hyperneat.Record)
	return nil
}

// SaveGenome stores a copy of r under id.
func (s *MemoryStore) SaveGenome(_ context.Context, id string, r hyperneat.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return "", errNotInitialized
	}
	id = newID(id)
	s.genomes[id] = cloneRecord(r)
	return id, nil
}

// GetGenome returns a copy of the record stored under id.
func (s *MemoryStore) GetGenome(_ context.Context, id string) (hyperneat.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return hyperneat.Record{}, false, errNotInitialized
	}
	r, ok := s.genomes[id]
	if !ok {
		return hyperneat.Record{}, false, nil
	}
	return cloneRecord(r), true, nil
}

// ListGenomes returns every stored id in ascending order.
func (s *MemoryStore) ListGenomes(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	ids := make([]string, 0, len(s.genomes))
	for id := range s.genomes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteGenome removes id. Deleting a missing id is not an error.
func (s *MemoryStore) DeleteGenome(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	delete(s.genomes, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// cloneRecord copies the slices so callers cannot alias stored records.
func cloneRecord(r hyperneat.Record) hyperneat.Record {
	r.Nodes = slices.Clone(r.Nodes)
	r.Links = slices.Clone(r.Links)
	r.Sort()
	return r
}
