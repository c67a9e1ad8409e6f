// Package library is the persistent local library: normalized track,
// album and artist rows, the Favorites playlist, playback state and the
// offline download index. It exclusively owns all persisted rows; DTOs
// passed in from the catalog are reconciled by external identifier before
// any relational link is created.
package library

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/orpheus-player/orpheus/internal/logger"
)

type Store struct {
	db  *sqlx.DB
	log *logger.Logger
}

// Open opens (or creates) the sqlite library at dsn, applies the base
// schema and runs any pending migrations.
func Open(dsn string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Default()
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// Set pragmas for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=30000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	store := &Store{db: db, log: log.WithComponent("library")}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a write transaction. Every multi-step mutation
// goes through here so partially written join rows are never visible to
// concurrent readers; plain reads stay unguarded.
func (s *Store) withTx(fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
