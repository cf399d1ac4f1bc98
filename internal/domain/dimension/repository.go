package dimension

import "context"

// Repository loads the dimension registry snapshot. The registry is built
// by the dimension-load phase outside this pipeline and read-only here.
type Repository interface {
	ListEntities(ctx context.Context) ([]Entity, error)
}

// ResolutionRepository persists the per-run resolution audit trail.
type ResolutionRepository interface {
	SaveResolutions(ctx context.Context, runID string, resolutions []Resolution) error
	ListResolutionsByRun(ctx context.Context, runID string) ([]Resolution, error)
}
