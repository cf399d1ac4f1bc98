package event

import "strings"

// Type is the tracked event category as entered by the trackers.
type Type string

const (
	TypeShot         Type = "Shot"
	TypeGoal         Type = "Goal"
	TypeFaceoff      Type = "Faceoff"
	TypeStoppage     Type = "Stoppage"
	TypeGameStart    Type = "GameStart"
	TypePeriodChange Type = "PeriodChange"
	TypeTakeaway     Type = "Takeaway"
	TypeGiveaway     Type = "Giveaway"
	TypePass         Type = "Pass"
	TypeHit          Type = "Hit"
	TypePenalty      Type = "Penalty"
)

var AllTypes = map[Type]struct{}{
	TypeShot:         {},
	TypeGoal:         {},
	TypeFaceoff:      {},
	TypeStoppage:     {},
	TypeGameStart:    {},
	TypePeriodChange: {},
	TypeTakeaway:     {},
	TypeGiveaway:     {},
	TypePass:         {},
	TypeHit:          {},
	TypePenalty:      {},
}

type Detail string

const (
	DetailGoalScored Detail = "Goal_Scored"
	DetailGoal       Detail = "Goal"
	DetailWide       Detail = "Wide"
	DetailOnNet      Detail = "OnNet"
	DetailBlocked    Detail = "Blocked"
	DetailWon        Detail = "Won"
	DetailLost       Detail = "Lost"
	DetailComplete   Detail = "Complete"
	DetailIncomplete Detail = "Incomplete"
	DetailNone       Detail = ""
)

type Zone string

const (
	ZoneOffensive Zone = "Offensive"
	ZoneNeutral   Zone = "Neutral"
	ZoneDefensive Zone = "Defensive"
)

// SlotOrigin records whether a play-detail slot was entered by a human
// tracker or filled by derivation. Human slots are never overwritten.
type SlotOrigin string

const (
	OriginHuman   SlotOrigin = "human"
	OriginDerived SlotOrigin = "derived"
)

// PlayDetail is one of the up to two per-event play annotations. PlayerRef
// names the player the annotation belongs to; Success carries the
// play-level outcome for that player.
type PlayDetail struct {
	Label     string
	PlayerRef string
	Success   *bool
	Origin    SlotOrigin
}

// Event is one tracked action. Enhancement fills Success and the derived
// play-detail slot, segmentation fills SequenceID/PlayID, resolution fills
// the *Key fields. The row is immutable after that.
type Event struct {
	GameID       string
	Period       int
	ClockSeconds float64
	Type         Type
	Detail       Detail
	PlayDetails  [2]*PlayDetail
	Zone         Zone
	TeamRef      string
	PlayerRef    string
	OpponentRef  string

	Success    *bool
	SequenceID int
	PlayID     int

	TeamKey     string
	PlayerKey   string
	OpponentKey string
	ZoneKey     string
}

// IsGoal is the canonical goal predicate. A Shot with detail "Goal" is a
// shot attempt, never a goal.
func (e Event) IsGoal() bool {
	return e.Type == TypeGoal && e.Detail == DetailGoalScored
}

// IsShotAttempt counts shots and goals alike.
func (e Event) IsShotAttempt() bool {
	if e.IsGoal() {
		return true
	}
	return e.Type == TypeShot
}

// SequenceBoundary reports whether this event type opens a new sequence.
func (e Event) SequenceBoundary() bool {
	switch e.Type {
	case TypeFaceoff, TypeGoal, TypePeriodChange, TypeStoppage, TypeGameStart:
		return true
	default:
		return false
	}
}

// PossessionChange reports whether the event flips possession inside a
// sequence.
func (e Event) PossessionChange() bool {
	return e.Type == TypeTakeaway || e.Type == TypeGiveaway
}

// HumanSlotFor reports whether a human-entered play detail already exists
// for the given player reference.
func (e Event) HumanSlotFor(playerRef string) bool {
	for _, slot := range e.PlayDetails {
		if slot == nil {
			continue
		}
		if slot.Origin == OriginHuman && strings.EqualFold(slot.PlayerRef, playerRef) {
			return true
		}
	}
	return false
}

// FreeSlot returns the index of the first empty play-detail slot, or -1.
func (e Event) FreeSlot() int {
	for i, slot := range e.PlayDetails {
		if slot == nil {
			return i
		}
	}
	return -1
}

func ParseType(raw string) (Type, bool) {
	candidate := Type(strings.TrimSpace(raw))
	if _, ok := AllTypes[candidate]; ok {
		return candidate, true
	}
	for known := range AllTypes {
		if strings.EqualFold(string(known), strings.TrimSpace(raw)) {
			return known, true
		}
	}
	return "", false
}

func ParseZone(raw string) (Zone, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "offensive", "off", "o":
		return ZoneOffensive, true
	case "neutral", "neu", "n":
		return ZoneNeutral, true
	case "defensive", "def", "d":
		return ZoneDefensive, true
	default:
		return "", false
	}
}
