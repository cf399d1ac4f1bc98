package memory

import (
	"context"
	"sync"

	"github.com/bluelinehq/rinkline/internal/domain/groundtruth"
)

type GroundTruthRepository struct {
	mu     sync.RWMutex
	byGame map[string][]groundtruth.Reference
}

func NewGroundTruthRepository(references []groundtruth.Reference) *GroundTruthRepository {
	byGame := make(map[string][]groundtruth.Reference)
	for _, ref := range references {
		byGame[ref.GameID] = append(byGame[ref.GameID], ref)
	}
	return &GroundTruthRepository{byGame: byGame}
}

func (r *GroundTruthRepository) ListByGame(_ context.Context, gameID string) ([]groundtruth.Reference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byGame[gameID]
	out := make([]groundtruth.Reference, 0, len(rows))
	out = append(out, rows...)
	return out, nil
}
