// Package storage opens the configured event store.
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/cadence/internal/badgerdb"
	"github.com/rpggio/cadence/internal/config"
	"github.com/rpggio/cadence/internal/repository"
	"github.com/rpggio/cadence/internal/sqlite"
)

// MemoryPath selects an in-memory store for either driver.
const MemoryPath = ":memory:"

// Store is an opened event repository and the function that closes it.
type Store struct {
	Events repository.EventRepository
	Close  func() error
}

// Open opens the store named by cfg.Driver at cfg.Path, creating parent
// directories and applying migrations as needed.
func Open(cfg config.StoreConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch cfg.Driver {
	case config.DriverSQLite, "":
		if err := ensureDir(cfg.Path, false); err != nil {
			return nil, fmt.Errorf("prepare sqlite path: %w", err)
		}
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("event store opened", "driver", config.DriverSQLite, "path", cfg.Path)
		return &Store{Events: sqlite.NewEventRepository(db), Close: db.Close}, nil

	case config.DriverBadger:
		inMemory := cfg.Path == MemoryPath
		if !inMemory {
			if err := ensureDir(cfg.Path, true); err != nil {
				return nil, fmt.Errorf("prepare badger path: %w", err)
			}
		}
		path := cfg.Path
		if inMemory {
			path = ""
		}
		db, err := badgerdb.Open(badgerdb.Options{Path: path, InMemory: inMemory}, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("event store opened", "driver", config.DriverBadger, "path", cfg.Path)
		return &Store{Events: badgerdb.NewEventRepository(db), Close: db.Close}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// ensureDir creates path itself when isDir is set, otherwise its parent.
func ensureDir(path string, isDir bool) error {
	if path == MemoryPath || path == "" {
		return nil
	}
	dir := path
	if !isDir {
		dir = filepath.Dir(path)
	}
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
