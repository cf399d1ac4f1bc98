// Package segment assigns possession-chain (sequence) and
// single-zone-possession (play) identifiers to enhanced events.
package segment

import (
	"sort"

	"github.com/bluelinehq/rinkline/internal/domain/event"
)

// Segmenter walks a game's chronologically ordered event stream and
// stamps sequence and play ids. State is explicit so transitions can be
// tested without a full pipeline run.
type Segmenter struct {
	sequenceID int
	playID     int
	zone       event.Zone
	team       string
}

func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment orders events by period and game clock and assigns ids in
// place. Sequence and play ids are dense positive integers per game
// starting at 1; the first event always opens sequence 1 / play 1
// whatever its type.
func (s *Segmenter) Segment(events []event.Event) []event.Event {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Period != events[j].Period {
			return events[i].Period < events[j].Period
		}
		return events[i].ClockSeconds < events[j].ClockSeconds
	})

	s.sequenceID = 0
	s.playID = 0

	for i := range events {
		s.transition(&events[i], i == 0)
	}
	return events
}

// transition applies the boundary rules in order: a boundary event type
// opens a new sequence and play; a zone change or possession change opens
// a new play within the sequence. When both fire on one event a single
// new play opens, never two.
func (s *Segmenter) transition(e *event.Event, first bool) {
	switch {
	case first || e.SequenceBoundary():
		s.sequenceID++
		s.playID++
		s.zone = e.Zone
		s.team = e.TeamRef
	case e.Zone != s.zone || e.PossessionChange():
		s.playID++
		s.zone = e.Zone
		s.team = e.TeamRef
	}

	e.SequenceID = s.sequenceID
	e.PlayID = s.playID
}

// Partition groups stamped events by sequence and play, preserving
// chronological order. The validator uses it to check the partition
// invariant.
type Partition struct {
	SequenceIDs []int
	// EventsBySequence and EventsByPlay hold indexes into the stamped
	// event slice.
	EventsBySequence map[int][]int
	EventsByPlay     map[int][]int
	PlaysBySequence  map[int][]int
}

func BuildPartition(events []event.Event) Partition {
	p := Partition{
		EventsBySequence: make(map[int][]int),
		EventsByPlay:     make(map[int][]int),
		PlaysBySequence:  make(map[int][]int),
	}
	seenPlay := make(map[int]struct{})
	for i, e := range events {
		if _, ok := p.EventsBySequence[e.SequenceID]; !ok {
			p.SequenceIDs = append(p.SequenceIDs, e.SequenceID)
		}
		p.EventsBySequence[e.SequenceID] = append(p.EventsBySequence[e.SequenceID], i)
		p.EventsByPlay[e.PlayID] = append(p.EventsByPlay[e.PlayID], i)
		if _, ok := seenPlay[e.PlayID]; !ok {
			seenPlay[e.PlayID] = struct{}{}
			p.PlaysBySequence[e.SequenceID] = append(p.PlaysBySequence[e.SequenceID], e.PlayID)
		}
	}
	return p
}
