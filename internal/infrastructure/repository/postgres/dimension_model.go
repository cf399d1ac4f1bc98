package postgres

import "github.com/lib/pq"

type dimensionEntityTableModel struct {
	EntityType      string         `db:"entity_type"`
	EntityKey       string         `db:"entity_key"`
	Name            string         `db:"name"`
	PotentialValues pq.StringArray `db:"potential_values"`
	OldEquivalents  pq.StringArray `db:"old_equivalents"`
	Scope           string         `db:"scope"`
}

type resolutionTableModel struct {
	RunID      string  `db:"run_id"`
	Mention    string  `db:"mention"`
	EntityType string  `db:"entity_type"`
	Scope      string  `db:"scope"`
	EntityKey  string  `db:"entity_key"`
	Confidence string  `db:"confidence"`
	Score      float64 `db:"score"`
	Reason     string  `db:"reason"`
}
