// Package validate runs tiered QA rules over a game's produced tables.
package validate

import (
	"fmt"
	"math"

	"github.com/bluelinehq/rinkline/internal/domain/dimension"
	"github.com/bluelinehq/rinkline/internal/domain/event"
	"github.com/bluelinehq/rinkline/internal/domain/fact"
	"github.com/bluelinehq/rinkline/internal/domain/groundtruth"
	"github.com/bluelinehq/rinkline/internal/domain/qa"
	"github.com/bluelinehq/rinkline/internal/domain/shift"
	"github.com/bluelinehq/rinkline/internal/pipeline/segment"
)

// Dataset is everything one game's validation can see.
type Dataset struct {
	GameID      string
	Events      []event.Event
	Shifts      []shift.Shift
	Facts       []fact.Row
	Resolutions []dimension.Resolution
	Registry    *dimension.Registry
	References  []groundtruth.Reference
}

// Rule is one independent check. Rules only read the dataset and report
// findings; they never mutate data.
type Rule interface {
	ID() string
	Evaluate(ds *Dataset) []qa.Finding
}

// Runner composes independent rules and reports all findings together.
type Runner struct {
	rules []Rule
}

func NewRunner(rules ...Rule) *Runner {
	return &Runner{rules: rules}
}

func (r *Runner) Run(ds *Dataset) []qa.Finding {
	findings := make([]qa.Finding, 0)
	for _, rule := range r.rules {
		findings = append(findings, rule.Evaluate(ds)...)
	}
	return findings
}

// DefaultRules is the rule set for ordinary pipeline runs.
func DefaultRules(unresolvedWarningRate float64) []Rule {
	return []Rule{
		ReferentialIntegrityRule{},
		GoalCountRule{},
		PartitionRule{},
		UnresolvedRateRule{MaxRate: unresolvedWarningRate},
		ShiftCorrectionRule{},
		DistributionRule{},
		PendingSourceRule{},
	}
}

// ReferentialIntegrityRule (blocking): every fact row's keys must resolve
// to an existing dimension row.
type ReferentialIntegrityRule struct{}

func (ReferentialIntegrityRule) ID() string { return "QA-101" }

func (r ReferentialIntegrityRule) Evaluate(ds *Dataset) []qa.Finding {
	findings := make([]qa.Finding, 0)
	check := func(kind dimension.EntityType, key string, row fact.Row) {
		if key == "" || ds.Registry.Has(kind, key) {
			return
		}
		findings = append(findings, qa.Finding{
			Tier:    qa.TierBlocking,
			RuleID:  r.ID(),
			Table:   "facts",
			RowRef:  fmt.Sprintf("%s/%s", row.GameID, row.Metric),
			Message: fmt.Sprintf("fact key %q has no %s dimension row", key, kind),
		})
	}
	for _, row := range ds.Facts {
		check(dimension.TypePlayer, row.PlayerKey, row)
		check(dimension.TypePlayer, row.PairKey, row)
		check(dimension.TypeTeam, row.TeamKey, row)
	}
	return findings
}

// GoalCountRule (blocking): goal totals computed two independent ways
// must match. Path one filters events with the canonical predicate; path
// two sums the published goal fact rows.
type GoalCountRule struct{}

func (GoalCountRule) ID() string { return "QA-102" }

func (r GoalCountRule) Evaluate(ds *Dataset) []qa.Finding {
	eventGoals := 0.0
	for _, e := range ds.Events {
		if e.IsGoal() && e.PlayerKey != "" {
			eventGoals++
		}
	}

	factGoals := 0.0
	for _, row := range ds.Facts {
		if row.Metric == "goals" {
			factGoals += row.Value
		}
	}

	if eventGoals != factGoals {
		return []qa.Finding{{
			Tier:    qa.TierBlocking,
			RuleID:  r.ID(),
			Table:   "facts",
			RowRef:  ds.GameID,
			Message: fmt.Sprintf("goal count mismatch: events=%d facts=%d", int(eventGoals), int(factGoals)),
		}}
	}
	return nil
}

// PartitionRule (blocking): concatenating plays within sequences in order
// must reconstruct the event stream exactly once per event.
type PartitionRule struct{}

func (PartitionRule) ID() string { return "QA-103" }

func (r PartitionRule) Evaluate(ds *Dataset) []qa.Finding {
	if len(ds.Events) == 0 {
		return nil
	}

	findings := make([]qa.Finding, 0)
	for i, e := range ds.Events {
		if e.SequenceID < 1 || e.PlayID < 1 {
			findings = append(findings, qa.Finding{
				Tier:    qa.TierBlocking,
				RuleID:  r.ID(),
				Table:   "events",
				RowRef:  fmt.Sprintf("%s#%d", ds.GameID, i),
				Message: "event missing sequence or play assignment",
			})
		}
	}
	if len(findings) > 0 {
		return findings
	}

	partition := segment.BuildPartition(ds.Events)
	position := 0
	for _, seqID := range partition.SequenceIDs {
		for _, playID := range partition.PlaysBySequence[seqID] {
			for _, idx := range partition.EventsByPlay[playID] {
				if idx != position {
					return []qa.Finding{{
						Tier:    qa.TierBlocking,
						RuleID:  r.ID(),
						Table:   "events",
						RowRef:  fmt.Sprintf("%s#%d", ds.GameID, idx),
						Message: fmt.Sprintf("sequence/play partition breaks event order at position %d", position),
					}}
				}
				position++
			}
		}
	}
	if position != len(ds.Events) {
		return []qa.Finding{{
			Tier:    qa.TierBlocking,
			RuleID:  r.ID(),
			Table:   "events",
			RowRef:  ds.GameID,
			Message: fmt.Sprintf("partition covers %d of %d events", position, len(ds.Events)),
		}}
	}
	return nil
}

// UnresolvedRateRule (warning): unresolved mentions above the configured
// share of all resolutions.
type UnresolvedRateRule struct {
	MaxRate float64
}

func (UnresolvedRateRule) ID() string { return "QA-201" }

func (r UnresolvedRateRule) Evaluate(ds *Dataset) []qa.Finding {
	if len(ds.Resolutions) == 0 {
		return nil
	}
	unresolved := 0
	for _, res := range ds.Resolutions {
		if res.Confidence == dimension.ConfidenceUnresolved {
			unresolved++
		}
	}
	rate := float64(unresolved) / float64(len(ds.Resolutions))
	if rate > r.MaxRate {
		return []qa.Finding{{
			Tier:    qa.TierWarning,
			RuleID:  r.ID(),
			Table:   "resolutions",
			RowRef:  ds.GameID,
			Message: fmt.Sprintf("unresolved rate %.1f%% exceeds %.1f%% (%d of %d mentions)", rate*100, r.MaxRate*100, unresolved, len(ds.Resolutions)),
		}}
	}
	return nil
}

// ShiftCorrectionRule (warning): summarizes overlap corrections applied
// during shift enhancement.
type ShiftCorrectionRule struct{}

func (ShiftCorrectionRule) ID() string { return "QA-202" }

func (r ShiftCorrectionRule) Evaluate(ds *Dataset) []qa.Finding {
	superseded, merged := 0, 0
	for _, s := range ds.Shifts {
		if s.Superseded {
			superseded++
		}
		if s.MergedFrom > 1 {
			merged++
		}
	}
	if superseded == 0 && merged == 0 {
		return nil
	}
	return []qa.Finding{{
		Tier:    qa.TierWarning,
		RuleID:  r.ID(),
		Table:   "shifts",
		RowRef:  ds.GameID,
		Message: fmt.Sprintf("shift corrections applied: %d merged, %d superseded", merged, superseded),
	}}
}

// DistributionRule (warning): flags statistic values outside plausible
// single-game ranges.
type DistributionRule struct{}

func (DistributionRule) ID() string { return "QA-203" }

var plausibleMax = map[string]float64{
	"goals":         6,
	"shot_attempts": 30,
	"faceoff_wins":  40,
	"toi_seconds":   2400,
}

func (r DistributionRule) Evaluate(ds *Dataset) []qa.Finding {
	findings := make([]qa.Finding, 0)
	for _, row := range ds.Facts {
		limit, tracked := plausibleMax[row.Metric]
		outlier := row.Value < 0 || (tracked && row.Value > limit)
		if !outlier {
			continue
		}
		findings = append(findings, qa.Finding{
			Tier:    qa.TierWarning,
			RuleID:  r.ID(),
			Table:   "facts",
			RowRef:  fmt.Sprintf("%s/%s", row.GameID, row.Metric),
			Message: fmt.Sprintf("unusual value %.1f for %s (player=%s team=%s)", row.Value, row.Metric, row.PlayerKey, row.TeamKey),
		})
	}
	return findings
}

// PendingSourceRule (informational): advisory placeholder for checks that
// need the penalty-box data feed, which is not wired yet.
type PendingSourceRule struct{}

func (PendingSourceRule) ID() string { return "QA-301" }

func (r PendingSourceRule) Evaluate(ds *Dataset) []qa.Finding {
	for _, e := range ds.Events {
		if e.Type == event.TypePenalty {
			return []qa.Finding{{
				Tier:    qa.TierInfo,
				RuleID:  r.ID(),
				Table:   "events",
				RowRef:  ds.GameID,
				Message: "penalty events present; penalty differential checks pending the penalty-box feed",
			}}
		}
	}
	return nil
}

// GroundTruthRule (blocking): compares published fact values against the
// curated reference set. Included only in ground-truth runs.
type GroundTruthRule struct{}

func (GroundTruthRule) ID() string { return "QA-110" }

const ratioTolerance = 1e-9

func (r GroundTruthRule) Evaluate(ds *Dataset) []qa.Finding {
	if len(ds.References) == 0 {
		return nil
	}

	type factKey struct {
		metric string
		player string
		team   string
	}
	values := make(map[factKey]float64, len(ds.Facts))
	for _, row := range ds.Facts {
		values[factKey{metric: row.Metric, player: row.PlayerKey, team: row.TeamKey}] = row.Value
	}

	findings := make([]qa.Finding, 0)
	for _, ref := range ds.References {
		got, ok := values[factKey{metric: ref.Metric, player: ref.PlayerKey, team: ref.TeamKey}]
		if !ok && ref.Expected == 0 {
			continue
		}
		if !ok || math.Abs(got-ref.Expected) > ratioTolerance {
			findings = append(findings, qa.Finding{
				Tier:   qa.TierBlocking,
				RuleID: r.ID(),
				Table:  "facts",
				RowRef: fmt.Sprintf("%s/%s", ref.GameID, ref.Metric),
				Message: fmt.Sprintf("ground truth mismatch for %s (player=%s team=%s): got %.3f, expected %.3f",
					ref.Metric, ref.PlayerKey, ref.TeamKey, got, ref.Expected),
			})
		}
	}
	return findings
}
