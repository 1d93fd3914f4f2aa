package ports

import (
	"context"

	"tabscout/domain/core"
	"tabscout/domain/profile"
)

// ProfileRepository defines the interface for profile storage operations
type ProfileRepository interface {
	Save(ctx context.Context, record *profile.Record) error
	GetByID(ctx context.Context, id core.ID) (*profile.Record, error)
	GetByHash(ctx context.Context, hash core.Hash) (*profile.Record, error)
	List(ctx context.Context, limit, offset int) ([]*profile.Record, error)
	Delete(ctx context.Context, id core.ID) error
}
