package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bluelinehq/rinkline/internal/domain/groundtruth"
	qb "github.com/bluelinehq/rinkline/internal/platform/querybuilder"
)

type GroundTruthRepository struct {
	db *sqlx.DB
}

type groundTruthTableModel struct {
	GameID    string  `db:"game_id"`
	Metric    string  `db:"metric"`
	PlayerKey string  `db:"player_key"`
	TeamKey   string  `db:"team_key"`
	Expected  float64 `db:"expected"`
}

func NewGroundTruthRepository(db *sqlx.DB) *GroundTruthRepository {
	return &GroundTruthRepository{db: db}
}

func (r *GroundTruthRepository) ListByGame(ctx context.Context, gameID string) ([]groundtruth.Reference, error) {
	query, args, err := qb.Select("game_id", "metric", "player_key", "team_key", "expected").
		From("ground_truth_references").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("metric", "player_key", "team_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select ground truth query: %w", err)
	}

	var rows []groundTruthTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select ground truth game=%s: %w", gameID, err)
	}

	out := make([]groundtruth.Reference, 0, len(rows))
	for _, row := range rows {
		out = append(out, groundtruth.Reference{
			GameID:    row.GameID,
			Metric:    row.Metric,
			PlayerKey: row.PlayerKey,
			TeamKey:   row.TeamKey,
			Expected:  row.Expected,
		})
	}

	return out, nil
}
