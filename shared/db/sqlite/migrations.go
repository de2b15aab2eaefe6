package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

type migration struct {
	version int
	name    string
	up      string
}

// migrations is the ordered list of all schema changes.
// Timestamps are stored as unix microseconds so they sort numerically.
var migrations = []migration{
	{
		version: 1,
		name:    "create_posts_table",
		up: `
			CREATE TABLE IF NOT EXISTS posts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				content TEXT NOT NULL DEFAULT '',
				category TEXT NOT NULL,
				broadcast INTEGER NOT NULL DEFAULT 0,
				draft INTEGER NOT NULL DEFAULT 1,
				created_at INTEGER NOT NULL,
				updated_at INTEGER
			);

			CREATE INDEX IF NOT EXISTS idx_posts_published_created_at
			ON posts(created_at DESC)
			WHERE draft = 0;
		`,
	},
	{
		version: 2,
		name:    "index_posts_category_and_broadcast",
		up: `
			CREATE INDEX IF NOT EXISTS idx_posts_category_created_at
			ON posts(category, created_at DESC);

			CREATE INDEX IF NOT EXISTS idx_posts_broadcast_created_at
			ON posts(created_at DESC)
			WHERE broadcast = 1;
		`,
	},
}

// runMigrations executes all pending migrations, each in its own transaction
func runMigrations(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	currentVersion := 0
	err = conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		if err := applyMigration(ctx, conn, m); err != nil {
			return err
		}
		log.Debug().Int("version", m.version).Str("name", m.name).Msg("Applied migration")
	}

	return nil
}

func applyMigration(ctx context.Context, conn *sql.DB, m migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.version, err)
	}

	if _, err := tx.ExecContext(ctx, m.up); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute migration %d (%s): %w", m.version, m.name, err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		m.version,
		m.name,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", m.version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
	}

	return nil
}
