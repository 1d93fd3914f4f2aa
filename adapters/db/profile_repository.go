package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tabscout/domain/core"
	"tabscout/domain/profile"
	"tabscout/ports"
)

// profileRepository implements the ProfileRepository interface
type profileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sqlx.DB) ports.ProfileRepository {
	return &profileRepository{db: db}
}

// profileRow is the stored shape of a profile.Record
type profileRow struct {
	ID          string `db:"id"`
	FileName    string `db:"file_name"`
	ContentHash string `db:"content_hash"`
	RowCount    int    `db:"row_count"`
	ColumnCount int    `db:"column_count"`
	Profile     string `db:"profile"`
	CreatedAt   int64  `db:"created_at"`
	RawPath     string `db:"raw_path"`
}

const profileColumns = `id, file_name, content_hash, row_count, column_count, profile, created_at, raw_path`

func (row *profileRow) toRecord() (*profile.Record, error) {
	record := &profile.Record{
		ID:          core.ID(row.ID),
		ContentHash: core.Hash(row.ContentHash),
		CreatedAt:   time.UnixMilli(row.CreatedAt).UTC(),
		RawPath:     row.RawPath,
	}
	if err := json.Unmarshal([]byte(row.Profile), &record.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", row.ID, err)
	}
	return record, nil
}

// Save inserts a new profile record
func (r *profileRepository) Save(ctx context.Context, record *profile.Record) error {
	profileJSON, err := json.Marshal(record.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	query := r.db.Rebind(`INSERT INTO profiles (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, query,
		record.ID.String(), record.Profile.FileName, record.ContentHash.String(),
		record.Profile.RowCount, len(record.Profile.Columns), string(profileJSON), record.CreatedAt.UnixMilli(), record.RawPath,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile record by its ID
func (r *profileRepository) GetByID(ctx context.Context, id core.ID) (*profile.Record, error) {
	var row profileRow
	query := r.db.Rebind(`SELECT ` + profileColumns + ` FROM profiles WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("profile", id.String())
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return row.toRecord()
}

// GetByHash retrieves the profile computed from identical bytes
func (r *profileRepository) GetByHash(ctx context.Context, hash core.Hash) (*profile.Record, error) {
	var row profileRow
	query := r.db.Rebind(`SELECT ` + profileColumns + ` FROM profiles WHERE content_hash = ? ORDER BY created_at ASC, id ASC LIMIT 1`)
	if err := r.db.GetContext(ctx, &row, query, hash.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewNotFoundError("profile", "hash:"+hash.Short())
		}
		return nil, fmt.Errorf("failed to get profile by hash: %w", err)
	}
	return row.toRecord()
}

// List returns profile records newest first with pagination
func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]*profile.Record, error) {
	var rows []profileRow
	query := r.db.Rebind(`SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	records := make([]*profile.Record, 0, len(rows))
	for i := range rows {
		record, err := rows[i].toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Delete removes a profile record
func (r *profileRepository) Delete(ctx context.Context, id core.ID) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM profiles WHERE id = ?`), id.String())
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return core.NewNotFoundError("profile", id.String())
	}
	return nil
}
