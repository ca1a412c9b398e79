// Package badgerdb stores the activity log in an embedded Badger key-value
// store.
package badgerdb

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

var sequenceKey = []byte("seq/events")

// sequenceBandwidth is how many ordering keys are leased per Badger write.
const sequenceBandwidth = 128

// DB wraps a Badger database and the sequence that hands out ordering keys.
type DB struct {
	*badger.DB
	seq    *badger.Sequence
	logger *slog.Logger
}

// Options configures Open.
type Options struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
	// SyncWrites fsyncs every commit.
	SyncWrites bool
}

// Open opens (or creates) the store.
func Open(opts Options, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if !opts.InMemory && opts.Path == "" {
		return nil, errors.New("badger path is required")
	}

	bopts := badger.DefaultOptions(opts.Path).
		WithInMemory(opts.InMemory).
		WithSyncWrites(opts.SyncWrites).
		WithLogger(nil).
		WithMetricsEnabled(false)
	if opts.InMemory {
		bopts = bopts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	seq, err := db.GetSequence(sequenceKey, sequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open event sequence: %w", err)
	}

	logger.Debug("badger opened", "path", opts.Path, "in_memory", opts.InMemory)
	return &DB{DB: db, seq: seq, logger: logger}, nil
}

// Close releases unused sequence leases and closes the database.
func (db *DB) Close() error {
	if err := db.seq.Release(); err != nil {
		db.logger.Warn("failed to release event sequence", "error", err)
	}
	return db.DB.Close()
}

// nextKey returns the next ordering key. Keys start at 1.
func (db *DB) nextKey() (int64, error) {
	n, err := db.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate ordering key: %w", err)
	}
	return int64(n) + 1, nil
}
