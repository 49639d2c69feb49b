package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// ApplyMigrations runs the schema file in a single transaction. It runs on
// every start, so each statement in the file must be idempotent.
func ApplyMigrations(ctx context.Context, conn *sql.DB, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading migration file: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("error applying migration %s: %w", filepath.Base(path), err)
	}
	return tx.Commit()
}
