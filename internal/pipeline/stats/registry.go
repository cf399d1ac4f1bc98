// Package stats computes fact records via a registry of named statistic
// functions over the resolved, segmented event set.
package stats

import (
	"fmt"
	"sort"

	"github.com/bluelinehq/rinkline/internal/domain/event"
	"github.com/bluelinehq/rinkline/internal/domain/fact"
	"github.com/bluelinehq/rinkline/internal/domain/qa"
	"github.com/bluelinehq/rinkline/internal/domain/shift"
)

const ruleStatSkipped = "STA-001"

// View is the read-only slice of one game a statistic function sees.
type View struct {
	GameID string
	Events []event.Event
	Shifts []shift.Shift
}

// HasColumn reports whether the named input is populated anywhere in the
// view. Statistic functions declare the columns they need; missing ones
// skip the statistic instead of failing the run.
func (v View) HasColumn(name string) bool {
	switch name {
	case "player_key":
		for _, e := range v.Events {
			if e.PlayerKey != "" {
				return true
			}
		}
	case "team_key":
		for _, e := range v.Events {
			if e.TeamKey != "" {
				return true
			}
		}
	case "success":
		for _, e := range v.Events {
			if e.Success != nil {
				return true
			}
		}
	case "sequence_id":
		for _, e := range v.Events {
			if e.SequenceID > 0 {
				return true
			}
		}
	case "shifts":
		return len(v.Shifts) > 0
	}
	return false
}

// Func is a pure statistic: same view in, same rows out.
type Func func(View) []fact.Row

// Statistic binds a named function to its grain and required inputs.
type Statistic struct {
	Name            string
	Grain           fact.Grain
	RequiredColumns []string
	Compute         Func
}

// Registry is an explicit, enumerable name → statistic mapping. New
// statistics are added by registration, not by touching build control
// flow.
type Registry struct {
	statistics map[string]Statistic
}

func NewRegistry() *Registry {
	return &Registry{statistics: make(map[string]Statistic)}
}

func (r *Registry) Register(s Statistic) error {
	if s.Name == "" || s.Compute == nil {
		return fmt.Errorf("statistic requires a name and a function")
	}
	if _, exists := r.statistics[s.Name]; exists {
		return fmt.Errorf("statistic %q already registered", s.Name)
	}
	r.statistics[s.Name] = s
	return nil
}

// Names returns registered statistic names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.statistics))
	for name := range r.statistics {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// GrainEntityTypes reports which entity kinds appear in any registered
// grain; the resolver escalates unresolved mentions of these.
func (r *Registry) GrainEntityTypes() (player, team bool) {
	for _, s := range r.statistics {
		switch s.Grain {
		case fact.GrainPlayerGame, fact.GrainPlayerPairGame:
			player = true
		case fact.GrainTeamGame:
			team = true
		}
	}
	return player, team
}

// Build runs every registered statistic over the view in name order and
// returns fact rows in deterministic order. A statistic with missing
// required inputs is skipped with a warning finding, never a failure.
func (r *Registry) Build(view View) ([]fact.Row, []qa.Finding) {
	rows := make([]fact.Row, 0)
	findings := make([]qa.Finding, 0)

	for _, name := range r.Names() {
		s := r.statistics[name]

		missing := ""
		for _, column := range s.RequiredColumns {
			if !view.HasColumn(column) {
				missing = column
				break
			}
		}
		if missing != "" {
			findings = append(findings, qa.Finding{
				Tier:    qa.TierWarning,
				RuleID:  ruleStatSkipped,
				Table:   "facts",
				RowRef:  view.GameID,
				Message: fmt.Sprintf("statistic %q skipped: required input %q missing", name, missing),
			})
			continue
		}

		rows = append(rows, s.Compute(view)...)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Metric != b.Metric {
			return a.Metric < b.Metric
		}
		if a.TeamKey != b.TeamKey {
			return a.TeamKey < b.TeamKey
		}
		if a.PlayerKey != b.PlayerKey {
			return a.PlayerKey < b.PlayerKey
		}
		return a.PairKey < b.PairKey
	})

	return rows, findings
}
