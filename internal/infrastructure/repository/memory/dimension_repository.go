package memory

import (
	"context"
	"sync"

	"github.com/bluelinehq/rinkline/internal/domain/dimension"
)

type DimensionRepository struct {
	mu       sync.RWMutex
	entities []dimension.Entity
}

func NewDimensionRepository(entities []dimension.Entity) *DimensionRepository {
	return &DimensionRepository{entities: entities}
}

func (r *DimensionRepository) ListEntities(_ context.Context) ([]dimension.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dimension.Entity, 0, len(r.entities))
	out = append(out, r.entities...)
	return out, nil
}

type ResolutionRepository struct {
	mu          sync.RWMutex
	byRun       map[string][]dimension.Resolution
}

func NewResolutionRepository() *ResolutionRepository {
	return &ResolutionRepository{byRun: make(map[string][]dimension.Resolution)}
}

func (r *ResolutionRepository) SaveResolutions(_ context.Context, runID string, resolutions []dimension.Resolution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byRun[runID] = append(r.byRun[runID], resolutions...)
	return nil
}

func (r *ResolutionRepository) ListResolutionsByRun(_ context.Context, runID string) ([]dimension.Resolution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byRun[runID]
	out := make([]dimension.Resolution, 0, len(rows))
	out = append(out, rows...)
	return out, nil
}
