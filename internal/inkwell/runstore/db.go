// Package runstore persists conversation runs in BoltDB and manages the
// per-run artifact namespace. It is the only writer of both.
package runstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/boltdb/bolt"
)

var bucketRuns = []byte("runs")

// DB wraps the BoltDB instance and manages its lifecycle.
type DB struct {
	db *bolt.DB
}

// Open opens (creating if needed) the run database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open run database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs bucket: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the underlying BoltDB instance.
func (d *DB) Close() error {
	return d.db.Close()
}

// Bolt returns the underlying BoltDB instance.
func (d *DB) Bolt() *bolt.DB {
	return d.db
}
