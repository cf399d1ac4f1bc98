package stats

import (
	"testing"

	"github.com/bluelinehq/rinkline/internal/domain/event"
	"github.com/bluelinehq/rinkline/internal/domain/fact"
	"github.com/bluelinehq/rinkline/internal/domain/qa"
	"github.com/bluelinehq/rinkline/internal/domain/shift"
)

func boolPtr(v bool) *bool { return &v }

func sampleView() View {
	return View{
		GameID: "g1",
		Events: []event.Event{
			{GameID: "g1", Period: 1, ClockSeconds: 100, Type: event.TypeGoal, Detail: event.DetailGoalScored, PlayerKey: "PLR-001", TeamKey: "TEAM-A", Success: boolPtr(true), SequenceID: 1, PlayID: 1},
			{GameID: "g1", Period: 1, ClockSeconds: 200, Type: event.TypeShot, Detail: event.DetailGoal, PlayerKey: "PLR-001", TeamKey: "TEAM-A", Success: boolPtr(true), SequenceID: 2, PlayID: 2},
			{GameID: "g1", Period: 1, ClockSeconds: 300, Type: event.TypeFaceoff, Detail: event.DetailWon, PlayerKey: "PLR-002", TeamKey: "TEAM-B", Success: boolPtr(true), SequenceID: 3, PlayID: 3},
		},
		Shifts: []shift.Shift{
			{GameID: "g1", Period: 1, StartSeconds: 0, EndSeconds: 150, PlayerKey: "PLR-003", TeamKey: "TEAM-A"},
			{GameID: "g1", Period: 1, StartSeconds: 0, EndSeconds: 150, PlayerKey: "PLR-004", TeamKey: "TEAM-B"},
			{GameID: "g1", Period: 1, StartSeconds: 200, EndSeconds: 280, PlayerKey: "PLR-003", TeamKey: "TEAM-A", Superseded: true},
		},
	}
}

func rowValue(t *testing.T, rows []fact.Row, metric, playerKey, teamKey string) float64 {
	t.Helper()
	for _, row := range rows {
		if row.Metric == metric && row.PlayerKey == playerKey && row.TeamKey == teamKey {
			return row.Value
		}
	}
	t.Fatalf("no row for metric=%s player=%s team=%s", metric, playerKey, teamKey)
	return 0
}

func TestDefaultRegistry_GoalCountsUseCanonicalFilter(t *testing.T) {
	rows, findings := DefaultRegistry().Build(sampleView())
	if len(findings) != 0 {
		t.Fatalf("unexpected findings: %+v", findings)
	}

	if got := rowValue(t, rows, "goals", "PLR-001", ""); got != 1 {
		t.Fatalf("goals=%v, want 1 (Shot/Goal must not count)", got)
	}
	if got := rowValue(t, rows, "shot_attempts", "PLR-001", ""); got != 2 {
		t.Fatalf("shot_attempts=%v, want 2", got)
	}
	if got := rowValue(t, rows, "team_goals", "", "TEAM-A"); got != 1 {
		t.Fatalf("team_goals=%v, want 1", got)
	}
}

func TestDefaultRegistry_TimeOnIceSkipsSuperseded(t *testing.T) {
	rows, _ := DefaultRegistry().Build(sampleView())
	if got := rowValue(t, rows, "toi_seconds", "PLR-003", ""); got != 150 {
		t.Fatalf("toi_seconds=%v, want 150 (superseded shift must not count)", got)
	}
}

func TestDefaultRegistry_GoalsForOnIcePairs(t *testing.T) {
	rows, _ := DefaultRegistry().Build(sampleView())

	var pairRows []fact.Row
	for _, row := range rows {
		if row.Metric == "goals_for_on_ice" {
			pairRows = append(pairRows, row)
		}
	}
	// only the TEAM-A teammate on ice at the goal clock pairs with the scorer
	if len(pairRows) != 1 {
		t.Fatalf("expected 1 pair row, got %d: %+v", len(pairRows), pairRows)
	}
	if pairRows[0].PlayerKey != "PLR-001" || pairRows[0].PairKey != "PLR-003" || pairRows[0].Value != 1 {
		t.Fatalf("unexpected pair row: %+v", pairRows[0])
	}
}

func TestRegistry_MissingInputSkipsWithWarning(t *testing.T) {
	view := sampleView()
	view.Shifts = nil

	rows, findings := DefaultRegistry().Build(view)

	skipped := 0
	for _, finding := range findings {
		if finding.RuleID != ruleStatSkipped || finding.Tier != qa.TierWarning {
			t.Fatalf("unexpected finding: %+v", finding)
		}
		skipped++
	}
	if skipped != 2 {
		t.Fatalf("expected toi_seconds and goals_for_on_ice to be skipped, got %d skips", skipped)
	}
	for _, row := range rows {
		if row.Metric == "toi_seconds" || row.Metric == "goals_for_on_ice" {
			t.Fatalf("skipped statistic still produced rows: %+v", row)
		}
	}
}

func TestRegistry_PureAndDeterministic(t *testing.T) {
	registry := DefaultRegistry()
	view := sampleView()

	first, _ := registry.Build(view)
	second, _ := registry.Build(view)

	if len(first) != len(second) {
		t.Fatalf("row count diverged: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("row %d diverged: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRegistry_RejectsDuplicateRegistration(t *testing.T) {
	registry := NewRegistry()
	stat := Statistic{Name: "goals", Grain: fact.GrainPlayerGame, Compute: playerGoals}
	if err := registry.Register(stat); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := registry.Register(stat); err == nil {
		t.Fatalf("duplicate registration must fail")
	}
}

func TestRegistry_GrainEntityTypes(t *testing.T) {
	player, team := DefaultRegistry().GrainEntityTypes()
	if !player || !team {
		t.Fatalf("built-in grains cover player and team, got player=%v team=%v", player, team)
	}
}
