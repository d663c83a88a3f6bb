package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tournaments (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		config      JSONB NOT NULL,
		bracket     JSONB NOT NULL,
		status      TEXT NOT NULL,
		version     INTEGER NOT NULL DEFAULT 0,
		archive_key TEXT,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tournaments_status ON tournaments (status)`,
	`CREATE TABLE IF NOT EXISTS match_reconciliations (
		tournament_id TEXT NOT NULL REFERENCES tournaments (id) ON DELETE CASCADE,
		match_id      TEXT NOT NULL,
		status        TEXT NOT NULL,
		side1         JSONB,
		side2         JSONB,
		resolution    JSONB,
		updated_at    TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (tournament_id, match_id)
	)`,
}

// Migrate creates the tables the repositories expect. Statements are
// idempotent and run in one transaction.
func Migrate(ctx context.Context, conn *sql.DB) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}
