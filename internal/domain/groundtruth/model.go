package groundtruth

import "context"

// Reference is one independently curated expected value for a known game.
type Reference struct {
	GameID    string
	Metric    string
	PlayerKey string
	TeamKey   string
	Expected  float64
}

// Repository reads the curated reference dataset used by ground-truth
// validation runs.
type Repository interface {
	ListByGame(ctx context.Context, gameID string) ([]Reference, error)
}
