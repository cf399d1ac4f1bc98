package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bluelinehq/rinkline/internal/domain/rawdata"
)

type RawDataRepository struct {
	mu          sync.RWMutex
	eventsByGame map[string][]rawdata.EventRow
	shiftsByGame map[string][]rawdata.ShiftRow
}

func NewRawDataRepository(events []rawdata.EventRow, shifts []rawdata.ShiftRow) *RawDataRepository {
	eventsByGame := make(map[string][]rawdata.EventRow)
	for _, row := range events {
		eventsByGame[row.GameID] = append(eventsByGame[row.GameID], row)
	}
	shiftsByGame := make(map[string][]rawdata.ShiftRow)
	for _, row := range shifts {
		shiftsByGame[row.GameID] = append(shiftsByGame[row.GameID], row)
	}
	return &RawDataRepository{eventsByGame: eventsByGame, shiftsByGame: shiftsByGame}
}

func (r *RawDataRepository) ListGameIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.eventsByGame))
	for gameID := range r.eventsByGame {
		out = append(out, gameID)
	}
	sort.Strings(out)
	return out, nil
}

func (r *RawDataRepository) ListEventRowsByGame(_ context.Context, gameID string) ([]rawdata.EventRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.eventsByGame[gameID]
	out := make([]rawdata.EventRow, 0, len(rows))
	out = append(out, rows...)
	return out, nil
}

func (r *RawDataRepository) ListShiftRowsByGame(_ context.Context, gameID string) ([]rawdata.ShiftRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.shiftsByGame[gameID]
	out := make([]rawdata.ShiftRow, 0, len(rows))
	out = append(out, rows...)
	return out, nil
}
