package enhance

import (
	"fmt"
	"strings"

	"github.com/bluelinehq/rinkline/internal/domain/event"
	"github.com/bluelinehq/rinkline/internal/domain/qa"
	"github.com/bluelinehq/rinkline/internal/domain/rawdata"
)

const (
	ruleUnknownEventType   = "ENH-001"
	ruleUnknownSuccess     = "ENH-002"
	ruleUnknownZone        = "ENH-003"
	rulePlayDetailConflict = "ENH-004"
)

// EventEnhancer derives the success flag and normalized play-detail slots
// from raw tracked-event rows. Rows it cannot interpret pass through with
// a nil success flag and a warning finding; nothing is dropped.
//
// With strictGoals off, a Goal-typed row with a blank detail is treated
// as scored. Strict mode requires the explicit Goal_Scored detail, which
// keeps attempt rows mislabeled as Goal out of the goal counts.
type EventEnhancer struct {
	strictGoals bool
}

func NewEventEnhancer(strictGoals bool) *EventEnhancer {
	return &EventEnhancer{strictGoals: strictGoals}
}

func (e *EventEnhancer) Enhance(rows []rawdata.EventRow) ([]event.Event, []qa.Finding) {
	events := make([]event.Event, 0, len(rows))
	findings := make([]qa.Finding, 0)

	for i, row := range rows {
		rowRef := fmt.Sprintf("%s#%d", row.GameID, i)

		out := event.Event{
			GameID:       row.GameID,
			Period:       row.Period,
			ClockSeconds: row.ClockSeconds,
			Detail:       event.Detail(strings.TrimSpace(row.EventDetail)),
			TeamRef:      strings.TrimSpace(row.TeamMention),
			PlayerRef:    strings.TrimSpace(row.PlayerMention),
			OpponentRef:  strings.TrimSpace(row.Opponent),
		}

		eventType, ok := event.ParseType(row.EventType)
		if !ok {
			out.Type = event.Type(strings.TrimSpace(row.EventType))
			findings = append(findings, qa.Finding{
				Tier:    qa.TierWarning,
				RuleID:  ruleUnknownEventType,
				Table:   "events",
				RowRef:  rowRef,
				Message: fmt.Sprintf("unknown event type %q, success left unset", row.EventType),
			})
			events = append(events, out)
			continue
		}
		out.Type = eventType
		if !e.strictGoals && out.Type == event.TypeGoal && out.Detail == "" {
			out.Detail = event.DetailGoalScored
		}

		zone, ok := event.ParseZone(row.Zone)
		if ok {
			out.Zone = zone
		} else if strings.TrimSpace(row.Zone) != "" {
			out.Zone = event.Zone(strings.TrimSpace(row.Zone))
			findings = append(findings, qa.Finding{
				Tier:    qa.TierWarning,
				RuleID:  ruleUnknownZone,
				Table:   "events",
				RowRef:  rowRef,
				Message: fmt.Sprintf("unrecognized zone %q", row.Zone),
			})
		}

		success, derived := deriveSuccess(out, row.SuccessMarker)
		if !derived {
			findings = append(findings, qa.Finding{
				Tier:    qa.TierWarning,
				RuleID:  ruleUnknownSuccess,
				Table:   "events",
				RowRef:  rowRef,
				Message: fmt.Sprintf("success marker %q not interpretable for %s/%s", row.SuccessMarker, out.Type, out.Detail),
			})
		} else {
			out.Success = success
		}

		attachHumanSlots(&out, row)
		if finding, conflicted := deriveOpposingSlot(&out, rowRef); conflicted {
			findings = append(findings, finding)
		}

		events = append(events, out)
	}

	return events, findings
}

// deriveSuccess normalizes the raw marker, falling back to context rules
// keyed on type/detail. The bool reports whether a value was determined.
func deriveSuccess(e event.Event, marker string) (*bool, bool) {
	switch strings.ToLower(strings.TrimSpace(marker)) {
	case "s", "success", "successful", "y", "yes", "t", "true", "1":
		return boolPtr(true), true
	case "f", "fail", "failed", "failure", "n", "no", "false", "0":
		return boolPtr(false), true
	case "":
		// fall through to context rules
	default:
		return nil, false
	}

	switch e.Type {
	case event.TypeGoal:
		if e.Detail == event.DetailGoalScored {
			return boolPtr(true), true
		}
	case event.TypeShot:
		switch e.Detail {
		case event.DetailOnNet, event.DetailGoal:
			return boolPtr(true), true
		case event.DetailWide, event.DetailBlocked:
			return boolPtr(false), true
		}
	case event.TypeFaceoff:
		switch e.Detail {
		case event.DetailWon:
			return boolPtr(true), true
		case event.DetailLost:
			return boolPtr(false), true
		}
	case event.TypePass:
		switch e.Detail {
		case event.DetailComplete:
			return boolPtr(true), true
		case event.DetailIncomplete:
			return boolPtr(false), true
		}
	case event.TypeTakeaway:
		return boolPtr(true), true
	case event.TypeGiveaway:
		return boolPtr(false), true
	case event.TypeGameStart, event.TypePeriodChange, event.TypeStoppage, event.TypeHit, event.TypePenalty:
		// administrative and neutral events have no success dimension
		return nil, true
	}

	return nil, false
}

// attachHumanSlots maps the two raw play-detail columns to slots. The
// first column annotates the acting player, the second the opponent.
// Play-level success inherits the event flag unless the annotation
// carries an explicit (S)/(F) override.
func attachHumanSlots(e *event.Event, row rawdata.EventRow) {
	if label := strings.TrimSpace(row.PlayDetail1); label != "" {
		e.PlayDetails[0] = humanSlot(label, e.PlayerRef, e.Success)
	}
	if label := strings.TrimSpace(row.PlayDetail2); label != "" {
		slot := e.FreeSlot()
		if slot >= 0 {
			e.PlayDetails[slot] = humanSlot(label, e.OpponentRef, e.Success)
		}
	}
}

func humanSlot(label, playerRef string, inherited *bool) *event.PlayDetail {
	success := inherited
	switch {
	case strings.HasSuffix(label, "(S)"):
		label = strings.TrimSpace(strings.TrimSuffix(label, "(S)"))
		success = boolPtr(true)
	case strings.HasSuffix(label, "(F)"):
		label = strings.TrimSpace(strings.TrimSuffix(label, "(F)"))
		success = boolPtr(false)
	}
	return &event.PlayDetail{
		Label:     label,
		PlayerRef: playerRef,
		Success:   success,
		Origin:    event.OriginHuman,
	}
}

// deriveOpposingSlot fills a free slot with the reciprocal action for the
// opposing player when the event implies one. Human-entered slots are
// never overwritten; if both slots are taken by human input the derived
// counterpart is skipped and a warning recorded.
func deriveOpposingSlot(e *event.Event, rowRef string) (qa.Finding, bool) {
	label, success, implied := reciprocalAction(*e)
	if !implied || e.OpponentRef == "" {
		return qa.Finding{}, false
	}
	if e.HumanSlotFor(e.OpponentRef) {
		return qa.Finding{}, false
	}

	slot := e.FreeSlot()
	if slot < 0 {
		return qa.Finding{
			Tier:    qa.TierWarning,
			RuleID:  rulePlayDetailConflict,
			Table:   "events",
			RowRef:  rowRef,
			Message: fmt.Sprintf("no free play-detail slot for derived %s against %s", label, e.OpponentRef),
		}, true
	}

	e.PlayDetails[slot] = &event.PlayDetail{
		Label:     label,
		PlayerRef: e.OpponentRef,
		Success:   boolPtr(success),
		Origin:    event.OriginDerived,
	}
	return qa.Finding{}, false
}

func reciprocalAction(e event.Event) (string, bool, bool) {
	if e.Success == nil {
		return "", false, false
	}
	switch e.Type {
	case event.TypeTakeaway:
		if *e.Success {
			return "Giveaway", false, true
		}
	case event.TypeGiveaway:
		if !*e.Success {
			return "Takeaway", true, true
		}
	case event.TypeFaceoff:
		if e.Detail == event.DetailWon && *e.Success {
			return "Faceoff_Lost", false, true
		}
	}
	return "", false, false
}

func boolPtr(v bool) *bool {
	return &v
}
