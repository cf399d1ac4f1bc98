package memory

import (
	"context"
	"sync"

	"github.com/bluelinehq/rinkline/internal/domain/qa"
)

type FindingRepository struct {
	mu      sync.RWMutex
	byRun   map[string][]qa.Finding
	reports []qa.Report
}

func NewFindingRepository() *FindingRepository {
	return &FindingRepository{byRun: make(map[string][]qa.Finding)}
}

func (r *FindingRepository) SaveFindings(_ context.Context, runID string, findings []qa.Finding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byRun[runID] = append(r.byRun[runID], findings...)
	return nil
}

func (r *FindingRepository) ListFindingsByRun(_ context.Context, runID string) ([]qa.Finding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byRun[runID]
	out := make([]qa.Finding, 0, len(rows))
	out = append(out, rows...)
	return out, nil
}

func (r *FindingRepository) SaveReport(_ context.Context, report qa.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reports = append(r.reports, report)
	return nil
}

func (r *FindingRepository) Reports() []qa.Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]qa.Report, 0, len(r.reports))
	out = append(out, r.reports...)
	return out
}
