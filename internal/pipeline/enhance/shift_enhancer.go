package enhance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bluelinehq/rinkline/internal/domain/qa"
	"github.com/bluelinehq/rinkline/internal/domain/rawdata"
	"github.com/bluelinehq/rinkline/internal/domain/shift"
)

const (
	ruleShiftInvalidInterval = "ENH-101"
	ruleShiftOverlap         = "ENH-102"
)

// ShiftEnhancer normalizes raw shift rows into non-overlapping,
// period-bounded intervals per player per team. Overlaps within tolerance
// merge to the union interval; beyond tolerance the longer interval stays
// canonical and the shorter is marked superseded.
type ShiftEnhancer struct {
	overlapTolerance float64
}

func NewShiftEnhancer(overlapToleranceSeconds float64) *ShiftEnhancer {
	return &ShiftEnhancer{overlapTolerance: overlapToleranceSeconds}
}

func (e *ShiftEnhancer) Enhance(rows []rawdata.ShiftRow) ([]shift.Shift, []qa.Finding) {
	findings := make([]qa.Finding, 0)

	type groupKey struct {
		player string
		team   string
		period int
	}
	groups := make(map[groupKey][]shift.Shift)
	order := make([]groupKey, 0)
	superseded := make([]shift.Shift, 0)

	for i, row := range rows {
		s := shift.Shift{
			GameID:       row.GameID,
			Period:       row.Period,
			StartSeconds: row.StartSeconds,
			EndSeconds:   row.EndSeconds,
			PlayerRef:    strings.TrimSpace(row.PlayerMention),
			TeamRef:      strings.TrimSpace(row.TeamMention),
			MergedFrom:   1,
		}
		if s.StartSeconds < 0 {
			s.StartSeconds = 0
		}
		if s.EndSeconds <= s.StartSeconds {
			findings = append(findings, qa.Finding{
				Tier:    qa.TierWarning,
				RuleID:  ruleShiftInvalidInterval,
				Table:   "shifts",
				RowRef:  fmt.Sprintf("%s#%d", row.GameID, i),
				Message: fmt.Sprintf("shift interval [%.1f,%.1f] is empty or inverted for %s", row.StartSeconds, row.EndSeconds, row.PlayerMention),
			})
			s.Superseded = true
			superseded = append(superseded, s)
			continue
		}

		key := groupKey{player: strings.ToLower(s.PlayerRef), team: strings.ToLower(s.TeamRef), period: s.Period}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], s)
	}

	out := make([]shift.Shift, 0, len(rows))
	for _, key := range order {
		resolved, kept := e.resolveGroup(groups[key])
		out = append(out, resolved...)
		findings = append(findings, kept...)
	}
	out = append(out, superseded...)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period < out[j].Period
		}
		if out[i].StartSeconds != out[j].StartSeconds {
			return out[i].StartSeconds < out[j].StartSeconds
		}
		return out[i].PlayerRef < out[j].PlayerRef
	})

	return out, findings
}

func (e *ShiftEnhancer) resolveGroup(shifts []shift.Shift) ([]shift.Shift, []qa.Finding) {
	sort.SliceStable(shifts, func(i, j int) bool {
		if shifts[i].StartSeconds != shifts[j].StartSeconds {
			return shifts[i].StartSeconds < shifts[j].StartSeconds
		}
		return shifts[i].EndSeconds < shifts[j].EndSeconds
	})

	findings := make([]qa.Finding, 0)
	out := make([]shift.Shift, 0, len(shifts))
	current := shifts[0]

	for _, next := range shifts[1:] {
		if !current.Overlaps(next) {
			out = append(out, current)
			current = next
			continue
		}

		overlap := minFloat(current.EndSeconds, next.EndSeconds) - maxFloat(current.StartSeconds, next.StartSeconds)
		if overlap <= e.overlapTolerance {
			// tracker jitter: fold into the union interval
			current.StartSeconds = minFloat(current.StartSeconds, next.StartSeconds)
			current.EndSeconds = maxFloat(current.EndSeconds, next.EndSeconds)
			current.MergedFrom += next.MergedFrom
			continue
		}

		longer, shorter := current, next
		if next.Duration() > current.Duration() {
			longer, shorter = next, current
		}
		shorter.Superseded = true
		findings = append(findings, qa.Finding{
			Tier:   qa.TierWarning,
			RuleID: ruleShiftOverlap,
			Table:  "shifts",
			RowRef: fmt.Sprintf("%s/p%d", shorter.GameID, shorter.Period),
			Message: fmt.Sprintf("shift overlap of %.1fs beyond tolerance for %s, kept [%.1f,%.1f] over [%.1f,%.1f]",
				overlap, shorter.PlayerRef, longer.StartSeconds, longer.EndSeconds, shorter.StartSeconds, shorter.EndSeconds),
		})
		out = append(out, shorter)
		current = longer
	}
	out = append(out, current)

	return out, findings
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
