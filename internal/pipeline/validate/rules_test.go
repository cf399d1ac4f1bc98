package validate

import (
	"testing"

	"github.com/bluelinehq/rinkline/internal/domain/dimension"
	"github.com/bluelinehq/rinkline/internal/domain/event"
	"github.com/bluelinehq/rinkline/internal/domain/fact"
	"github.com/bluelinehq/rinkline/internal/domain/groundtruth"
	"github.com/bluelinehq/rinkline/internal/domain/qa"
	"github.com/bluelinehq/rinkline/internal/domain/shift"
)

func boolPtr(v bool) *bool { return &v }

func validDataset() *Dataset {
	registry := dimension.NewRegistry([]dimension.Entity{
		{Type: dimension.TypePlayer, Key: "PLR-001", Name: "Alex Petersson"},
		{Type: dimension.TypeTeam, Key: "TEAM-A", Name: "Anchorage Avalanche"},
	})
	return &Dataset{
		GameID:   "g1",
		Registry: registry,
		Events: []event.Event{
			{GameID: "g1", Period: 1, ClockSeconds: 10, Type: event.TypeFaceoff, Detail: event.DetailWon, PlayerKey: "PLR-001", TeamKey: "TEAM-A", Success: boolPtr(true), SequenceID: 1, PlayID: 1},
			{GameID: "g1", Period: 1, ClockSeconds: 20, Type: event.TypeGoal, Detail: event.DetailGoalScored, PlayerKey: "PLR-001", TeamKey: "TEAM-A", Success: boolPtr(true), SequenceID: 2, PlayID: 2},
		},
		Facts: []fact.Row{
			{GameID: "g1", Grain: fact.GrainPlayerGame, PlayerKey: "PLR-001", Metric: "goals", Value: 1},
			{GameID: "g1", Grain: fact.GrainTeamGame, TeamKey: "TEAM-A", Metric: "team_goals", Value: 1},
		},
		Resolutions: []dimension.Resolution{
			{Mention: "Petersson", EntityType: dimension.TypePlayer, Key: "PLR-001", Confidence: dimension.ConfidenceAlias},
		},
	}
}

func TestRunner_CleanDatasetHasNoBlockingFindings(t *testing.T) {
	runner := NewRunner(DefaultRules(0.02)...)
	findings := runner.Run(validDataset())

	if n := qa.CountByTier(findings, qa.TierBlocking); n != 0 {
		t.Fatalf("clean dataset produced %d blocking findings: %+v", n, findings)
	}
	if qa.StatusFor(findings) != qa.StatusPassed {
		t.Fatalf("clean dataset must pass, got %s", qa.StatusFor(findings))
	}
}

func TestReferentialIntegrityRule_MissingDimension(t *testing.T) {
	ds := validDataset()
	ds.Facts = append(ds.Facts, fact.Row{GameID: "g1", Grain: fact.GrainPlayerGame, PlayerKey: "PLR-999", Metric: "goals", Value: 1})

	findings := (ReferentialIntegrityRule{}).Evaluate(ds)
	if len(findings) != 1 || findings[0].Tier != qa.TierBlocking {
		t.Fatalf("dangling fact key must block, got %+v", findings)
	}
}

func TestGoalCountRule_Mismatch(t *testing.T) {
	ds := validDataset()
	ds.Facts[0].Value = 2

	findings := (GoalCountRule{}).Evaluate(ds)
	if len(findings) != 1 || findings[0].Tier != qa.TierBlocking {
		t.Fatalf("goal count mismatch must block, got %+v", findings)
	}
}

func TestGoalCountRule_ShotGoalDetailDoesNotCount(t *testing.T) {
	ds := validDataset()
	// a Shot with detail Goal is an attempt; both paths must agree on 1 goal
	ds.Events = append(ds.Events, event.Event{
		GameID: "g1", Period: 1, ClockSeconds: 30, Type: event.TypeShot, Detail: event.DetailGoal,
		PlayerKey: "PLR-001", TeamKey: "TEAM-A", Success: boolPtr(true), SequenceID: 2, PlayID: 2,
	})

	if findings := (GoalCountRule{}).Evaluate(ds); len(findings) != 0 {
		t.Fatalf("Shot/Goal inflated the goal count: %+v", findings)
	}
}

func TestPartitionRule_UnassignedEvent(t *testing.T) {
	ds := validDataset()
	ds.Events[1].SequenceID = 0

	findings := (PartitionRule{}).Evaluate(ds)
	if len(findings) == 0 || findings[0].Tier != qa.TierBlocking {
		t.Fatalf("unassigned event must block, got %+v", findings)
	}
}

func TestUnresolvedRateRule_AboveThreshold(t *testing.T) {
	ds := validDataset()
	ds.Resolutions = append(ds.Resolutions, dimension.Resolution{
		Mention: "???", EntityType: dimension.TypePlayer, Confidence: dimension.ConfidenceUnresolved,
	})

	findings := (UnresolvedRateRule{MaxRate: 0.02}).Evaluate(ds)
	if len(findings) != 1 || findings[0].Tier != qa.TierWarning {
		t.Fatalf("50%% unresolved must warn, got %+v", findings)
	}
}

func TestShiftCorrectionRule_Summary(t *testing.T) {
	ds := validDataset()
	ds.Shifts = []shift.Shift{
		{GameID: "g1", Period: 1, StartSeconds: 0, EndSeconds: 60, PlayerKey: "PLR-001", MergedFrom: 2},
		{GameID: "g1", Period: 1, StartSeconds: 10, EndSeconds: 20, PlayerKey: "PLR-001", Superseded: true, MergedFrom: 1},
	}

	findings := (ShiftCorrectionRule{}).Evaluate(ds)
	if len(findings) != 1 || findings[0].Tier != qa.TierWarning {
		t.Fatalf("corrections must surface as one warning, got %+v", findings)
	}
}

func TestDistributionRule_Outlier(t *testing.T) {
	ds := validDataset()
	ds.Facts = append(ds.Facts, fact.Row{GameID: "g1", Grain: fact.GrainPlayerGame, PlayerKey: "PLR-001", Metric: "goals", Value: 11})

	findings := (DistributionRule{}).Evaluate(ds)
	if len(findings) != 1 || findings[0].Tier != qa.TierWarning {
		t.Fatalf("implausible value must warn, got %+v", findings)
	}
}

func TestGroundTruthRule_MismatchBlocks(t *testing.T) {
	ds := validDataset()
	ds.References = []groundtruth.Reference{
		{GameID: "g1", Metric: "goals", PlayerKey: "PLR-001", Expected: 1},
		{GameID: "g1", Metric: "team_goals", TeamKey: "TEAM-A", Expected: 2},
	}

	findings := (GroundTruthRule{}).Evaluate(ds)
	if len(findings) != 1 || findings[0].Tier != qa.TierBlocking {
		t.Fatalf("expected exactly the team_goals mismatch, got %+v", findings)
	}
}

func TestGroundTruthRule_SkippedOutsideGroundTruthRuns(t *testing.T) {
	ds := validDataset()
	if findings := (GroundTruthRule{}).Evaluate(ds); len(findings) != 0 {
		t.Fatalf("without references the rule must stay silent, got %+v", findings)
	}
}

func TestStatusRollup(t *testing.T) {
	cases := []struct {
		findings []qa.Finding
		want     qa.RunStatus
	}{
		{nil, qa.StatusPassed},
		{[]qa.Finding{{Tier: qa.TierInfo}}, qa.StatusPassed},
		{[]qa.Finding{{Tier: qa.TierWarning}}, qa.StatusPassedWithWarnings},
		{[]qa.Finding{{Tier: qa.TierWarning}, {Tier: qa.TierBlocking}}, qa.StatusFailed},
	}
	for i, tc := range cases {
		if got := qa.StatusFor(tc.findings); got != tc.want {
			t.Fatalf("case %d: status=%s, want %s", i, got, tc.want)
		}
	}
}
