package migration

import (
	"context"

	"tabscout/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations. Every statement is
// idempotent and valid for both PostgreSQL and SQLite.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.1.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createProfilesTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create profiles table", err)
	}

	if err := r.addRawPathColumn(ctx, db); err != nil {
		return errors.DatabaseError("failed to add raw_path column", err)
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.DatabaseError("failed to create indexes", err)
	}

	return nil
}

// created_at holds unix milliseconds so the column type is portable.
func (r *MigrationRunner) createProfilesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			id VARCHAR(36) PRIMARY KEY,
			file_name TEXT NOT NULL,
			content_hash VARCHAR(64) NOT NULL,
			row_count INTEGER NOT NULL,
			column_count INTEGER NOT NULL,
			profile TEXT NOT NULL,
			created_at BIGINT NOT NULL,
			raw_path TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

// addRawPathColumn upgrades tables created before raw uploads were tracked.
// SQLite has no ADD COLUMN IF NOT EXISTS, so the column is probed first.
func (r *MigrationRunner) addRawPathColumn(ctx context.Context, db *sqlx.DB) error {
	rows, err := db.QueryContext(ctx, `SELECT raw_path FROM profiles LIMIT 0`)
	if err == nil {
		return rows.Close()
	}
	_, err = db.ExecContext(ctx, `ALTER TABLE profiles ADD COLUMN raw_path TEXT NOT NULL DEFAULT ''`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		// Replaced by the unique index below.
		`DROP INDEX IF EXISTS idx_profiles_content_hash`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_profiles_content_hash ON profiles(content_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_created_at ON profiles(created_at)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
