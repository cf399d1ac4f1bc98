package enhance

import (
	"testing"

	"github.com/bluelinehq/rinkline/internal/domain/event"
	"github.com/bluelinehq/rinkline/internal/domain/qa"
	"github.com/bluelinehq/rinkline/internal/domain/rawdata"
)

func TestEventEnhancer_CanonicalGoalRule(t *testing.T) {
	enhancer := NewEventEnhancer(true)

	events, findings := enhancer.Enhance([]rawdata.EventRow{
		{GameID: "g1", EventType: "Goal", EventDetail: "Goal_Scored", Zone: "Off", TeamMention: "A"},
		{GameID: "g1", EventType: "Shot", EventDetail: "Goal", Zone: "Off", TeamMention: "A"},
	})
	if len(findings) != 0 {
		t.Fatalf("unexpected findings: %+v", findings)
	}

	if !events[0].IsGoal() {
		t.Fatalf("Goal/Goal_Scored must count as a goal")
	}
	if events[1].IsGoal() {
		t.Fatalf("Shot/Goal must never count as a goal")
	}
	if !events[1].IsShotAttempt() {
		t.Fatalf("Shot/Goal must count as a shot attempt")
	}
}

func TestEventEnhancer_SuccessMarkerNormalization(t *testing.T) {
	enhancer := NewEventEnhancer(true)

	events, _ := enhancer.Enhance([]rawdata.EventRow{
		{GameID: "g1", EventType: "Pass", SuccessMarker: "S"},
		{GameID: "g1", EventType: "Pass", SuccessMarker: "fail"},
		{GameID: "g1", EventType: "Pass", SuccessMarker: "Y"},
	})

	if events[0].Success == nil || !*events[0].Success {
		t.Fatalf("marker S must normalize to success")
	}
	if events[1].Success == nil || *events[1].Success {
		t.Fatalf("marker fail must normalize to failure")
	}
	if events[2].Success == nil || !*events[2].Success {
		t.Fatalf("marker Y must normalize to success")
	}
}

func TestEventEnhancer_ContextDerivedSuccess(t *testing.T) {
	enhancer := NewEventEnhancer(true)

	events, findings := enhancer.Enhance([]rawdata.EventRow{
		{GameID: "g1", EventType: "Faceoff", EventDetail: "Won"},
		{GameID: "g1", EventType: "Faceoff", EventDetail: "Lost"},
		{GameID: "g1", EventType: "Takeaway"},
		{GameID: "g1", EventType: "Giveaway"},
		{GameID: "g1", EventType: "Shot", EventDetail: "Wide"},
	})
	if len(findings) != 0 {
		t.Fatalf("unexpected findings: %+v", findings)
	}

	wantSuccess := []bool{true, false, true, false, false}
	for i, want := range wantSuccess {
		if events[i].Success == nil {
			t.Fatalf("event %d: success not derived", i)
		}
		if *events[i].Success != want {
			t.Fatalf("event %d: success=%v, want %v", i, *events[i].Success, want)
		}
	}
}

func TestEventEnhancer_UnknownTypePassesThroughWithWarning(t *testing.T) {
	enhancer := NewEventEnhancer(true)

	events, findings := enhancer.Enhance([]rawdata.EventRow{
		{GameID: "g1", EventType: "Zamboni"},
	})

	if len(events) != 1 {
		t.Fatalf("malformed row must pass through, got %d events", len(events))
	}
	if events[0].Success != nil {
		t.Fatalf("malformed row must keep a nil success flag")
	}
	if len(findings) != 1 || findings[0].Tier != qa.TierWarning || findings[0].RuleID != ruleUnknownEventType {
		t.Fatalf("expected one %s warning, got %+v", ruleUnknownEventType, findings)
	}
}

func TestEventEnhancer_OpposingPlayerDerivation(t *testing.T) {
	enhancer := NewEventEnhancer(true)

	events, _ := enhancer.Enhance([]rawdata.EventRow{
		{GameID: "g1", EventType: "Takeaway", PlayerMention: "Smith", Opponent: "Jones"},
	})

	derived := events[0].PlayDetails[0]
	if derived == nil {
		t.Fatalf("expected a derived opposing-player slot")
	}
	if derived.Label != "Giveaway" || derived.PlayerRef != "Jones" {
		t.Fatalf("unexpected derived slot: %+v", derived)
	}
	if derived.Success == nil || *derived.Success {
		t.Fatalf("derived giveaway must be unsuccessful for the opponent")
	}
	if derived.Origin != event.OriginDerived {
		t.Fatalf("slot origin must be derived, got %s", derived.Origin)
	}
}

func TestEventEnhancer_HumanInputSupreme(t *testing.T) {
	enhancer := NewEventEnhancer(true)

	events, _ := enhancer.Enhance([]rawdata.EventRow{
		{
			GameID:        "g1",
			EventType:     "Takeaway",
			PlayerMention: "Smith",
			Opponent:      "Jones",
			PlayDetail2:   "Stripped(F)",
		},
	})

	e := events[0]
	var humanSlots, derivedForOpponent int
	for _, slot := range e.PlayDetails {
		if slot == nil {
			continue
		}
		if slot.Origin == event.OriginHuman {
			humanSlots++
			if slot.PlayerRef != "Jones" || slot.Label != "Stripped" {
				t.Fatalf("human slot mangled: %+v", slot)
			}
			if slot.Success == nil || *slot.Success {
				t.Fatalf("explicit (F) override must mark the play unsuccessful")
			}
		}
		if slot.Origin == event.OriginDerived && slot.PlayerRef == "Jones" {
			derivedForOpponent++
		}
	}
	if humanSlots != 1 {
		t.Fatalf("expected exactly one human slot, got %d", humanSlots)
	}
	if derivedForOpponent != 0 {
		t.Fatalf("derived counterpart must not collide with the human-entered slot")
	}
}

func TestEventEnhancer_PlayLevelSuccessInheritsEvent(t *testing.T) {
	enhancer := NewEventEnhancer(true)

	events, _ := enhancer.Enhance([]rawdata.EventRow{
		{GameID: "g1", EventType: "Pass", EventDetail: "Complete", PlayerMention: "Smith", PlayDetail1: "Stretch_Pass"},
	})

	slot := events[0].PlayDetails[0]
	if slot == nil || slot.Origin != event.OriginHuman {
		t.Fatalf("expected a human slot for the acting player")
	}
	if slot.Success == nil || !*slot.Success {
		t.Fatalf("play success must inherit the event-level success")
	}
}

func TestEventEnhancer_LenientGoalFilter(t *testing.T) {
	rows := []rawdata.EventRow{
		{GameID: "g1", EventType: "Goal", Zone: "Off", TeamMention: "A"},
	}

	strict, _ := NewEventEnhancer(true).Enhance(rows)
	if strict[0].IsGoal() {
		t.Fatalf("strict mode must not count a detail-less Goal row")
	}

	lenient, _ := NewEventEnhancer(false).Enhance(rows)
	if !lenient[0].IsGoal() {
		t.Fatalf("lenient mode must count a detail-less Goal row")
	}
}
