package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/baldhumanity/es-hyperneat-go/hyperneat"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps records in a sqlite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore returns a store backed by the database at path; call Init
// before use.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the genomes table if needed.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// SaveGenome upserts r under id.
func (s *SQLiteStore) SaveGenome(ctx context.Context, id string, r hyperneat.Record) (string, error) {
	db, err := s.getDB()
	if err != nil {
		return "", err
	}

	id = newID(id)
	payload, err := EncodeGenome(id, r)
	if err != nil {
		return "", err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO genomes (id, schema_version, nodes, links, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			nodes = excluded.nodes,
			links = excluded.links,
			payload = excluded.payload
	`, id, CurrentSchemaVersion, len(r.Nodes), len(r.Links), payload)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetGenome loads and decodes the record stored under id.
func (s *SQLiteStore) GetGenome(ctx context.Context, id string) (hyperneat.Record, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return hyperneat.Record{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM genomes WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return hyperneat.Record{}, false, nil
		}
		return hyperneat.Record{}, false, err
	}

	_, r, err := DecodeGenome(payload)
	if err != nil {
		return hyperneat.Record{}, false, fmt.Errorf("decode genome %s: %w", id, err)
	}
	return r, true, nil
}

// ListGenomes returns every stored id in ascending order.
func (s *SQLiteStore) ListGenomes(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM genomes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteGenome removes id. Deleting a missing id is not an error.
func (s *SQLiteStore) DeleteGenome(ctx context.Context, id string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `DELETE FROM genomes WHERE id = ?`, id)
	return err
}

// Close releases the database handle. The store can be opened again with Init.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS genomes (
			id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			nodes INTEGER NOT NULL,
			links INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
