package shift

// Shift is one interval of ice time for a player on a team within a
// period. Enhancement resolves overlaps; resolution fills the key fields.
type Shift struct {
	GameID       string
	Period       int
	StartSeconds float64
	EndSeconds   float64
	PlayerRef    string
	TeamRef      string

	PlayerKey string
	TeamKey   string

	// Superseded marks a shorter interval displaced by a longer
	// overlapping one. Superseded rows are retained, not dropped.
	Superseded bool
	// MergedFrom counts raw rows folded into this interval (1 if none).
	MergedFrom int
}

func (s Shift) Duration() float64 {
	if s.EndSeconds < s.StartSeconds {
		return 0
	}
	return s.EndSeconds - s.StartSeconds
}

// Overlaps reports whether two shifts share any time in the same period.
func (s Shift) Overlaps(other Shift) bool {
	if s.Period != other.Period {
		return false
	}
	return s.StartSeconds < other.EndSeconds && other.StartSeconds < s.EndSeconds
}

// ContiguousWithin reports whether two shifts overlap or abut within the
// given tolerance, making them mergeable.
func (s Shift) ContiguousWithin(other Shift, tolerance float64) bool {
	if s.Period != other.Period {
		return false
	}
	return s.StartSeconds <= other.EndSeconds+tolerance && other.StartSeconds <= s.EndSeconds+tolerance
}
