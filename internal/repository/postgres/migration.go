package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

// RunMigrations creates the games table and its indexes when missing.
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema.sql: %w", err)
	}
	return nil
}
