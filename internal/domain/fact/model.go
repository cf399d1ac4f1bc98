package fact

import "context"

// SchemaVersion identifies the fact table column layout handed to the
// sync layer. Bump on any column change.
const SchemaVersion = 3

// Grain is the aggregation key shape of a fact row.
type Grain string

const (
	GrainPlayerGame     Grain = "player_game"
	GrainTeamGame       Grain = "team_game"
	GrainPlayerPairGame Grain = "player_pair_game"
)

// Row is one aggregated statistic value at a grain.
type Row struct {
	GameID    string
	Grain     Grain
	PlayerKey string
	TeamKey   string
	// PairKey holds the second player of a player-pair grain.
	PairKey string
	Metric  string
	Value   float64
}

// Repository persists fact rows for the warehouse.
type Repository interface {
	ReplaceByGame(ctx context.Context, gameID string, rows []Row) error
	ListByGame(ctx context.Context, gameID string) ([]Row, error)
	DeleteAll(ctx context.Context) error
}
