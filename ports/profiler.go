package ports

import (
	"context"

	"tabscout/domain/profile"
)

// Profiler turns delimited text into a dataset profile
type Profiler interface {
	Profile(ctx context.Context, content, fileName string) (*profile.DatasetProfile, error)
}
