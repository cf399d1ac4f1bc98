package dimension

import "strings"

// EntityType partitions the dimension registry.
type EntityType string

const (
	TypePlayer   EntityType = "player"
	TypeTeam     EntityType = "team"
	TypeZone     EntityType = "zone"
	TypePosition EntityType = "position"
	TypeVenue    EntityType = "venue"
)

// Entity is one canonical dimension row. PotentialValues are accepted
// textual variants; OldEquivalents are legacy aliases from earlier tracking
// seasons. Scope bounds fuzzy search (team key for players, empty for
// global entities).
type Entity struct {
	Type            EntityType
	Key             string
	Name            string
	PotentialValues []string
	OldEquivalents  []string
	Scope           string
}

// Confidence tiers a resolution result.
type Confidence string

const (
	ConfidenceExact      Confidence = "exact"
	ConfidenceAlias      Confidence = "alias"
	ConfidenceFuzzy      Confidence = "fuzzy"
	ConfidenceUnresolved Confidence = "unresolved"
)

// Resolution maps one raw mention to a canonical key, or records why it
// could not be mapped.
type Resolution struct {
	Mention    string
	EntityType EntityType
	Scope      string
	Key        string
	Confidence Confidence
	Score      float64
	Reason     string
}

// Registry is an immutable snapshot of all dimension entities, indexed by
// normalized key, alias and variant per entity type. Safe for concurrent
// reads.
type Registry struct {
	byType    map[EntityType][]Entity
	byKey     map[EntityType]map[string]Entity
	byAlias   map[EntityType]map[string]Entity
	byVariant map[EntityType]map[string]Entity
}

func NewRegistry(entities []Entity) *Registry {
	r := &Registry{
		byType:    make(map[EntityType][]Entity),
		byKey:     make(map[EntityType]map[string]Entity),
		byAlias:   make(map[EntityType]map[string]Entity),
		byVariant: make(map[EntityType]map[string]Entity),
	}
	for _, entity := range entities {
		r.byType[entity.Type] = append(r.byType[entity.Type], entity)
		ensure(r.byKey, entity.Type)[Normalize(entity.Key)] = entity
		ensure(r.byKey, entity.Type)[Normalize(entity.Name)] = entity
		for _, alias := range entity.OldEquivalents {
			ensure(r.byAlias, entity.Type)[Normalize(alias)] = entity
		}
		for _, variant := range entity.PotentialValues {
			ensure(r.byVariant, entity.Type)[Normalize(variant)] = entity
		}
	}
	return r
}

func ensure(index map[EntityType]map[string]Entity, t EntityType) map[string]Entity {
	if index[t] == nil {
		index[t] = make(map[string]Entity)
	}
	return index[t]
}

func (r *Registry) ByKey(t EntityType, normalized string) (Entity, bool) {
	entity, ok := r.byKey[t][normalized]
	return entity, ok
}

func (r *Registry) ByAlias(t EntityType, normalized string) (Entity, bool) {
	entity, ok := r.byAlias[t][normalized]
	return entity, ok
}

func (r *Registry) ByVariant(t EntityType, normalized string) (Entity, bool) {
	entity, ok := r.byVariant[t][normalized]
	return entity, ok
}

// Candidates returns entities of the given type visible in scope. An
// entity with an empty scope is visible everywhere.
func (r *Registry) Candidates(t EntityType, scope string) []Entity {
	all := r.byType[t]
	if scope == "" {
		return all
	}
	out := make([]Entity, 0, len(all))
	for _, entity := range all {
		if entity.Scope == "" || entity.Scope == scope {
			out = append(out, entity)
		}
	}
	return out
}

func (r *Registry) Has(t EntityType, key string) bool {
	_, ok := r.byKey[t][Normalize(key)]
	return ok
}

// Normalize lowercases, trims and strips punctuation so spelling variants
// of the same mention collide.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '-' || r == '_' || r == '.':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
