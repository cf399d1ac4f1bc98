// Package resolve maps free-text entity mentions in enhanced events and
// shifts to canonical dimension keys.
package resolve

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/bluelinehq/rinkline/internal/domain/dimension"
	"github.com/bluelinehq/rinkline/internal/domain/event"
	"github.com/bluelinehq/rinkline/internal/domain/qa"
	"github.com/bluelinehq/rinkline/internal/domain/shift"
)

const ruleUnresolvedMention = "RES-001"

// Resolver applies the exact → alias → fuzzy → unresolved ladder per
// entity type. Results are cached per (mention, type, scope) so repeated
// mentions resolve once; the cache never changes outcomes. Deterministic
// given the same registry snapshot and thresholds.
type Resolver struct {
	registry        *dimension.Registry
	scorer          Scorer
	minConfidence   float64
	ambiguityMargin float64
	// requiredTypes are entity types that appear in a registered
	// statistic's grain; unresolved mentions of these escalate to
	// blocking findings.
	requiredTypes map[dimension.EntityType]bool

	mu    sync.RWMutex
	cache map[cacheKey]dimension.Resolution
}

type cacheKey struct {
	mention string
	kind    dimension.EntityType
	scope   string
}

func NewResolver(
	registry *dimension.Registry,
	scorer Scorer,
	minConfidence, ambiguityMargin float64,
	requiredTypes map[dimension.EntityType]bool,
) (*Resolver, error) {
	if registry == nil {
		return nil, errors.New("dimension registry is required")
	}
	if scorer == nil {
		return nil, errors.New("similarity scorer is required")
	}
	if ambiguityMargin >= minConfidence {
		return nil, errors.Newf("ambiguity margin %.3f must be below min confidence %.3f", ambiguityMargin, minConfidence)
	}
	return &Resolver{
		registry:        registry,
		scorer:          scorer,
		minConfidence:   minConfidence,
		ambiguityMargin: ambiguityMargin,
		requiredTypes:   requiredTypes,
		cache:           make(map[cacheKey]dimension.Resolution),
	}, nil
}

// Resolve maps one mention. An empty mention is an explicit unresolved
// result, not an error.
func (r *Resolver) Resolve(mention string, kind dimension.EntityType, scope string) dimension.Resolution {
	normalized := dimension.Normalize(mention)
	if normalized == "" {
		return dimension.Resolution{
			Mention:    mention,
			EntityType: kind,
			Scope:      scope,
			Confidence: dimension.ConfidenceUnresolved,
			Reason:     "empty mention",
		}
	}

	key := cacheKey{mention: normalized, kind: kind, scope: scope}
	r.mu.RLock()
	if cached, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return cached
	}
	r.mu.RUnlock()

	resolution := r.resolveUncached(mention, normalized, kind, scope)

	r.mu.Lock()
	r.cache[key] = resolution
	r.mu.Unlock()
	return resolution
}

func (r *Resolver) resolveUncached(mention, normalized string, kind dimension.EntityType, scope string) dimension.Resolution {
	out := dimension.Resolution{Mention: mention, EntityType: kind, Scope: scope}

	if entity, ok := r.registry.ByKey(kind, normalized); ok {
		out.Key, out.Confidence, out.Score = entity.Key, dimension.ConfidenceExact, 1
		return out
	}
	if entity, ok := r.registry.ByAlias(kind, normalized); ok {
		out.Key, out.Confidence, out.Score = entity.Key, dimension.ConfidenceExact, 1
		return out
	}
	if entity, ok := r.registry.ByVariant(kind, normalized); ok {
		out.Key, out.Confidence, out.Score = entity.Key, dimension.ConfidenceAlias, 1
		return out
	}

	return r.fuzzy(out, mention, kind, scope)
}

// fuzzy scores the mention against every candidate string of every entity
// in scope, keeping the best score per entity. The top entity wins only
// when it clears the minimum confidence and no second entity scores
// within the ambiguity margin.
func (r *Resolver) fuzzy(out dimension.Resolution, mention string, kind dimension.EntityType, scope string) dimension.Resolution {
	candidates := r.registry.Candidates(kind, scope)
	if len(candidates) == 0 {
		out.Confidence = dimension.ConfidenceUnresolved
		out.Reason = "no candidates in scope"
		return out
	}

	var bestEntity dimension.Entity
	bestScore, secondScore := -1.0, -1.0

	for _, candidate := range candidates {
		score := r.scoreEntity(mention, candidate)
		if score > bestScore {
			secondScore = bestScore
			bestScore = score
			bestEntity = candidate
		} else if score > secondScore {
			secondScore = score
		}
	}

	if bestScore < r.minConfidence {
		out.Confidence = dimension.ConfidenceUnresolved
		out.Score = bestScore
		out.Reason = fmt.Sprintf("best score %.3f below threshold %.3f", bestScore, r.minConfidence)
		return out
	}
	if secondScore >= 0 && bestScore-secondScore < r.ambiguityMargin {
		out.Confidence = dimension.ConfidenceUnresolved
		out.Score = bestScore
		out.Reason = fmt.Sprintf("ambiguous: runner-up within %.3f of top score %.3f", r.ambiguityMargin, bestScore)
		return out
	}

	out.Key = bestEntity.Key
	out.Confidence = dimension.ConfidenceFuzzy
	out.Score = bestScore
	return out
}

func (r *Resolver) scoreEntity(mention string, entity dimension.Entity) float64 {
	best := r.scorer.Score(mention, entity.Name)
	if score := r.scorer.Score(mention, entity.Key); score > best {
		best = score
	}
	for _, variant := range entity.PotentialValues {
		if score := r.scorer.Score(mention, variant); score > best {
			best = score
		}
	}
	for _, alias := range entity.OldEquivalents {
		if score := r.scorer.Score(mention, alias); score > best {
			best = score
		}
	}
	return best
}

// ResolveEvents fills the canonical key fields of every event and returns
// the full resolution audit trail plus findings for unresolved mentions.
func (r *Resolver) ResolveEvents(events []event.Event) ([]event.Event, []dimension.Resolution, []qa.Finding) {
	resolutions := make([]dimension.Resolution, 0, len(events))
	findings := make([]qa.Finding, 0)

	for i := range events {
		e := &events[i]
		rowRef := fmt.Sprintf("%s#%d", e.GameID, i)

		if e.TeamRef != "" {
			res := r.Resolve(e.TeamRef, dimension.TypeTeam, "")
			e.TeamKey = res.Key
			resolutions = append(resolutions, res)
			findings = r.appendUnresolved(findings, res, "events", rowRef, e.GameID)
		}
		if e.PlayerRef != "" {
			res := r.Resolve(e.PlayerRef, dimension.TypePlayer, e.TeamKey)
			e.PlayerKey = res.Key
			resolutions = append(resolutions, res)
			findings = r.appendUnresolved(findings, res, "events", rowRef, e.GameID)
		}
		if e.OpponentRef != "" {
			res := r.Resolve(e.OpponentRef, dimension.TypePlayer, "")
			e.OpponentKey = res.Key
			resolutions = append(resolutions, res)
			findings = r.appendUnresolved(findings, res, "events", rowRef, e.GameID)
		}
		if e.Zone != "" {
			res := r.Resolve(string(e.Zone), dimension.TypeZone, "")
			e.ZoneKey = res.Key
			resolutions = append(resolutions, res)
			findings = r.appendUnresolved(findings, res, "events", rowRef, e.GameID)
		}
	}

	return events, resolutions, findings
}

// ResolveShifts uses the same mechanism as events, not duplicated logic.
func (r *Resolver) ResolveShifts(shifts []shift.Shift) ([]shift.Shift, []dimension.Resolution, []qa.Finding) {
	resolutions := make([]dimension.Resolution, 0, len(shifts))
	findings := make([]qa.Finding, 0)

	for i := range shifts {
		s := &shifts[i]
		rowRef := fmt.Sprintf("%s#%d", s.GameID, i)

		if s.TeamRef != "" {
			res := r.Resolve(s.TeamRef, dimension.TypeTeam, "")
			s.TeamKey = res.Key
			resolutions = append(resolutions, res)
			findings = r.appendUnresolved(findings, res, "shifts", rowRef, s.GameID)
		}
		if s.PlayerRef != "" {
			res := r.Resolve(s.PlayerRef, dimension.TypePlayer, s.TeamKey)
			s.PlayerKey = res.Key
			resolutions = append(resolutions, res)
			findings = r.appendUnresolved(findings, res, "shifts", rowRef, s.GameID)
		}
	}

	return shifts, resolutions, findings
}

func (r *Resolver) appendUnresolved(findings []qa.Finding, res dimension.Resolution, table, rowRef, gameID string) []qa.Finding {
	if res.Confidence != dimension.ConfidenceUnresolved {
		return findings
	}
	tier := qa.TierWarning
	if r.requiredTypes[res.EntityType] {
		tier = qa.TierBlocking
	}
	return append(findings, qa.Finding{
		Tier:   tier,
		RuleID: ruleUnresolvedMention,
		Table:  table,
		RowRef: rowRef,
		Message: fmt.Sprintf("unresolved %s mention %q in game %s: %s",
			res.EntityType, res.Mention, gameID, res.Reason),
	})
}
