package enhance

import (
	"testing"

	"github.com/bluelinehq/rinkline/internal/domain/rawdata"
)

func TestShiftEnhancer_MergeWithinTolerance(t *testing.T) {
	enhancer := NewShiftEnhancer(2.0)

	shifts, findings := enhancer.Enhance([]rawdata.ShiftRow{
		{GameID: "g1", Period: 1, StartSeconds: 0, EndSeconds: 30, PlayerMention: "Smith", TeamMention: "A"},
		{GameID: "g1", Period: 1, StartSeconds: 29, EndSeconds: 55, PlayerMention: "Smith", TeamMention: "A"},
	})

	if len(findings) != 0 {
		t.Fatalf("merge within tolerance must not produce findings: %+v", findings)
	}
	if len(shifts) != 1 {
		t.Fatalf("expected one merged shift, got %d", len(shifts))
	}
	if shifts[0].StartSeconds != 0 || shifts[0].EndSeconds != 55 {
		t.Fatalf("merged bounds must be the union, got [%.1f,%.1f]", shifts[0].StartSeconds, shifts[0].EndSeconds)
	}
	if shifts[0].MergedFrom != 2 {
		t.Fatalf("merged shift must count its source rows, got %d", shifts[0].MergedFrom)
	}
}

func TestShiftEnhancer_SupersedeBeyondTolerance(t *testing.T) {
	enhancer := NewShiftEnhancer(2.0)

	shifts, findings := enhancer.Enhance([]rawdata.ShiftRow{
		{GameID: "g1", Period: 1, StartSeconds: 0, EndSeconds: 40, PlayerMention: "Smith", TeamMention: "A"},
		{GameID: "g1", Period: 1, StartSeconds: 10, EndSeconds: 25, PlayerMention: "Smith", TeamMention: "A"},
	})

	if len(findings) != 1 {
		t.Fatalf("expected one overlap finding, got %+v", findings)
	}
	if len(shifts) != 2 {
		t.Fatalf("superseded shift must be retained, got %d shifts", len(shifts))
	}

	var canonical, superseded int
	for _, s := range shifts {
		if s.Superseded {
			superseded++
			if s.Duration() != 15 {
				t.Fatalf("shorter interval must be the superseded one, got %.1fs", s.Duration())
			}
		} else {
			canonical++
			if s.StartSeconds != 0 || s.EndSeconds != 40 {
				t.Fatalf("longer interval must survive, got [%.1f,%.1f]", s.StartSeconds, s.EndSeconds)
			}
		}
	}
	if canonical != 1 || superseded != 1 {
		t.Fatalf("expected 1 canonical + 1 superseded, got %d/%d", canonical, superseded)
	}
}

func TestShiftEnhancer_DifferentPlayersNeverInteract(t *testing.T) {
	enhancer := NewShiftEnhancer(2.0)

	shifts, findings := enhancer.Enhance([]rawdata.ShiftRow{
		{GameID: "g1", Period: 1, StartSeconds: 0, EndSeconds: 40, PlayerMention: "Smith", TeamMention: "A"},
		{GameID: "g1", Period: 1, StartSeconds: 0, EndSeconds: 40, PlayerMention: "Jones", TeamMention: "A"},
	})

	if len(findings) != 0 || len(shifts) != 2 {
		t.Fatalf("concurrent shifts of different players must both survive untouched")
	}
}

func TestShiftEnhancer_InvertedIntervalFlagged(t *testing.T) {
	enhancer := NewShiftEnhancer(2.0)

	shifts, findings := enhancer.Enhance([]rawdata.ShiftRow{
		{GameID: "g1", Period: 1, StartSeconds: 50, EndSeconds: 20, PlayerMention: "Smith", TeamMention: "A"},
	})

	if len(findings) != 1 || findings[0].RuleID != ruleShiftInvalidInterval {
		t.Fatalf("inverted interval must be flagged, got %+v", findings)
	}
	if len(shifts) != 1 || !shifts[0].Superseded {
		t.Fatalf("inverted interval must pass through marked superseded")
	}
}
