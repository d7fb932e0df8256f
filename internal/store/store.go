// Package store persists catalog documents in an embedded Badger database.
//
// Books and users are stored as JSON documents under typed key prefixes.
// Reviews live embedded in their book; a secondary index maps review IDs back
// to the owning book so reviews can be addressed globally.
package store

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookhollow/bookhollow-server/internal/domain"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Per-document mutexes serializing read-modify-write cycles. Keyed by the
	// document's primary key. Never removed; the set of hot documents is small.
	locks sync.Map

	// Generic entities
	Books *Entity[domain.Book]
	Users *Entity[domain.User]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.initBooks()
	store.initUsers()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// initBooks initializes the Books entity on the store.
// The review index maps every embedded review ID to its owning book, which
// both enforces global review ID uniqueness and lets review mutations resolve
// their book without scanning the catalog.
func (s *Store) initBooks() {
	s.Books = NewEntity[domain.Book](s, "book:").
		WithIndex("review", func(b *domain.Book) []string {
			keys := make([]string, len(b.Reviews))
			for i, r := range b.Reviews {
				keys[i] = r.ID
			}
			return keys
		})
}

// initUsers initializes the Users entity on the store.
// User IDs are registrant-chosen usernames, so no secondary index is needed.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, "user:")
}

// Backup streams a full copy of the database to w and returns the version of
// the last written entry.
func (s *Store) Backup(w io.Writer) (uint64, error) {
	version, err := s.db.Backup(w, 0)
	if err != nil {
		return 0, fmt.Errorf("backup database: %w", err)
	}
	return version, nil
}

// Load reads a backup stream produced by Backup into the database. Existing
// keys are overwritten by the stream's values.
func (s *Store) Load(r io.Reader) error {
	if err := s.db.Load(r, 256); err != nil {
		return fmt.Errorf("load backup: %w", err)
	}
	return nil
}

// lock acquires the per-document mutex for the given primary key and returns
// the unlock function.
func (s *Store) lock(key string) func() {
	v, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
