package memory

import (
	"context"
	"sync"
)

type SnapshotRepository struct {
	mu     sync.RWMutex
	byGame map[string][]byte
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{byGame: make(map[string][]byte)}
}

func (r *SnapshotRepository) Get(_ context.Context, gameID string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payload, ok := r.byGame[gameID]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, true, nil
}

func (r *SnapshotRepository) Put(_ context.Context, gameID string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]byte, len(payload))
	copy(stored, payload)
	r.byGame[gameID] = stored
	return nil
}
