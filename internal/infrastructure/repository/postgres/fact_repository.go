package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bluelinehq/rinkline/internal/domain/fact"
	qb "github.com/bluelinehq/rinkline/internal/platform/querybuilder"
)

type FactRepository struct {
	db *sqlx.DB
}

type factRowTableModel struct {
	GameID        string  `db:"game_id"`
	Grain         string  `db:"grain"`
	PlayerKey     string  `db:"player_key"`
	TeamKey       string  `db:"team_key"`
	PairKey       string  `db:"pair_key"`
	Metric        string  `db:"metric"`
	Value         float64 `db:"value"`
	SchemaVersion int     `db:"schema_version"`
}

var factSelectColumns = []string{
	"game_id",
	"grain",
	"player_key",
	"team_key",
	"pair_key",
	"metric",
	"value",
	"schema_version",
}

func NewFactRepository(db *sqlx.DB) *FactRepository {
	return &FactRepository{db: db}
}

// ReplaceByGame swaps a game's published rows atomically: readers see
// either the previous build or the new one, never a mix.
func (r *FactRepository) ReplaceByGame(ctx context.Context, gameID string, rows []fact.Row) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace facts: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("fact_rows").
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete facts query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete facts game=%s: %w", gameID, err)
	}

	if len(rows) > 0 {
		models := make([]any, 0, len(rows))
		for _, row := range rows {
			models = append(models, factRowTableModel{
				GameID:        row.GameID,
				Grain:         string(row.Grain),
				PlayerKey:     row.PlayerKey,
				TeamKey:       row.TeamKey,
				PairKey:       row.PairKey,
				Metric:        row.Metric,
				Value:         row.Value,
				SchemaVersion: fact.SchemaVersion,
			})
		}

		insertQuery, insertArgs, err := qb.InsertModels("fact_rows", models, "")
		if err != nil {
			return fmt.Errorf("build insert facts query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert facts game=%s: %w", gameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace facts tx: %w", err)
	}

	return nil
}

func (r *FactRepository) ListByGame(ctx context.Context, gameID string) ([]fact.Row, error) {
	query, args, err := qb.Select(factSelectColumns...).
		From("fact_rows").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("grain", "metric", "player_key", "team_key", "pair_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select facts query: %w", err)
	}

	var rows []factRowTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select facts game=%s: %w", gameID, err)
	}

	out := make([]fact.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, fact.Row{
			GameID:    row.GameID,
			Grain:     fact.Grain(row.Grain),
			PlayerKey: row.PlayerKey,
			TeamKey:   row.TeamKey,
			PairKey:   row.PairKey,
			Metric:    row.Metric,
			Value:     row.Value,
		})
	}

	return out, nil
}

func (r *FactRepository) DeleteAll(ctx context.Context) error {
	query, args, err := qb.DeleteFrom("fact_rows").ToSQL()
	if err != nil {
		return fmt.Errorf("build delete all facts query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete all facts: %w", err)
	}
	return nil
}
