package library

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

type migration struct {
	Version     int
	Description string
	Statements  []string
}

// migrations are forward-only and additive: no destructive column drops,
// so any older library file stays readable after an upgrade.
var migrations = []migration{
	{
		Version:     2,
		Description: "add cached lyrics column to tracks",
		Statements: []string{
			`ALTER TABLE tracks ADD COLUMN lyrics TEXT`,
		},
	},
	{
		Version:     3,
		Description: "add created_at to playlist_tracks for recently-favorited ordering",
		Statements: []string{
			`ALTER TABLE playlist_tracks ADD COLUMN created_at DATETIME`,
		},
	},
}

// migrate applies every unapplied migration in version order. Applied
// versions are recorded in schema_migrations, so running the full set
// again is a no-op.
func (s *Store) migrate() error {
	for _, m := range migrations {
		var count int
		if err := s.db.Get(&count, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, m.Version); err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		err := s.withTx(func(tx *sqlx.Tx) error {
			for _, stmt := range m.Statements {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
				}
			}
			_, err := tx.Exec(`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
				m.Version, m.Description)
			return err
		})
		if err != nil {
			return err
		}

		s.log.Info("applied migration", "version", m.Version, "description", m.Description)
	}
	return nil
}
