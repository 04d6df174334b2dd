// Package store implements persistent storage for the REPL: the input
// history and snapshots of the global bindings.
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/paiml/ruchy-sub012/pkg/logutil"
	. "github.com/paiml/ruchy-sub012/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

// Buckets.
const (
	bucketHistory  = "history"
	bucketSnapshot = "snapshot"
)

var initDB = map[string]func(*bolt.Tx) error{}

// DBStore is the permanent storage backend of the REPL.
type DBStore interface {
	Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

// NewStore opens the database at dbname, creating it if needed.
func NewStore(dbname string) (DBStore, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new Store from a bolt DB.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")
	st := &dbStore{db: db}
	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// Close closes the database.
func (s *dbStore) Close() error {
	return s.db.Close()
}
