package qa

import (
	"context"
	"time"
)

// Tier ranks a validation finding.
type Tier int

const (
	TierBlocking Tier = 1
	TierWarning  Tier = 2
	TierInfo     Tier = 3
)

func (t Tier) String() string {
	switch t {
	case TierBlocking:
		return "blocking"
	case TierWarning:
		return "warning"
	case TierInfo:
		return "informational"
	default:
		return "unknown"
	}
}

// Finding is one write-once validation result. RowRef locates the
// offending row inside Table when the rule is row-scoped.
type Finding struct {
	Tier    Tier
	RuleID  string
	Table   string
	RowRef  string
	Message string
}

// RunStatus is the overall outcome of a pipeline run.
type RunStatus string

const (
	StatusPassed             RunStatus = "passed"
	StatusPassedWithWarnings RunStatus = "passed_with_warnings"
	StatusFailed             RunStatus = "failed"
)

// StatusFor rolls findings up to a run status: any blocking finding fails
// the run, any warning downgrades a pass.
func StatusFor(findings []Finding) RunStatus {
	status := StatusPassed
	for _, finding := range findings {
		switch finding.Tier {
		case TierBlocking:
			return StatusFailed
		case TierWarning:
			status = StatusPassedWithWarnings
		}
	}
	return status
}

// Report is the per-run validation output handed to the status API.
type Report struct {
	RunID      string
	Status     RunStatus
	Findings   []Finding
	StartedAt  time.Time
	FinishedAt time.Time
}

// CountByTier is a convenience for report summaries.
func CountByTier(findings []Finding, tier Tier) int {
	n := 0
	for _, finding := range findings {
		if finding.Tier == tier {
			n++
		}
	}
	return n
}

// FindingRepository persists findings and run reports.
type FindingRepository interface {
	SaveFindings(ctx context.Context, runID string, findings []Finding) error
	ListFindingsByRun(ctx context.Context, runID string) ([]Finding, error)
	SaveReport(ctx context.Context, report Report) error
}
