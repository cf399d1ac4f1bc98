package memory

import (
	"context"
	"sync"

	"github.com/bluelinehq/rinkline/internal/domain/fact"
)

type FactRepository struct {
	mu     sync.RWMutex
	byGame map[string][]fact.Row
}

func NewFactRepository() *FactRepository {
	return &FactRepository{byGame: make(map[string][]fact.Row)}
}

func (r *FactRepository) ReplaceByGame(_ context.Context, gameID string, rows []fact.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	replacement := make([]fact.Row, 0, len(rows))
	replacement = append(replacement, rows...)
	r.byGame[gameID] = replacement
	return nil
}

func (r *FactRepository) ListByGame(_ context.Context, gameID string) ([]fact.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byGame[gameID]
	out := make([]fact.Row, 0, len(rows))
	out = append(out, rows...)
	return out, nil
}

func (r *FactRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byGame = make(map[string][]fact.Row)
	return nil
}
