package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bluelinehq/rinkline/internal/domain/rawdata"
	qb "github.com/bluelinehq/rinkline/internal/platform/querybuilder"
)

type RawDataRepository struct {
	db *sqlx.DB
}

var rawEventSelectColumns = []string{
	"game_id",
	"period",
	"clock_seconds",
	"event_type",
	"event_detail",
	"play_detail_1",
	"play_detail_2",
	"zone",
	"team_mention",
	"player_mention",
	"opponent",
	"success_marker",
}

var rawShiftSelectColumns = []string{
	"game_id",
	"period",
	"start_seconds",
	"end_seconds",
	"player_mention",
	"team_mention",
}

func NewRawDataRepository(db *sqlx.DB) *RawDataRepository {
	return &RawDataRepository{db: db}
}

func (r *RawDataRepository) ListGameIDs(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("game_id").
		Distinct().
		From("raw_event_rows").
		OrderBy("game_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game ids query: %w", err)
	}

	var gameIDs []string
	if err := r.db.SelectContext(ctx, &gameIDs, query, args...); err != nil {
		return nil, fmt.Errorf("select game ids: %w", err)
	}

	return gameIDs, nil
}

func (r *RawDataRepository) ListEventRowsByGame(ctx context.Context, gameID string) ([]rawdata.EventRow, error) {
	query, args, err := qb.Select(rawEventSelectColumns...).
		From("raw_event_rows").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("period", "clock_seconds").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select raw event rows query: %w", err)
	}

	var rows []rawEventRowTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select raw event rows game=%s: %w", gameID, err)
	}

	out := make([]rawdata.EventRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, rawdata.EventRow{
			GameID:        row.GameID,
			Period:        row.Period,
			ClockSeconds:  row.ClockSeconds,
			EventType:     row.EventType,
			EventDetail:   row.EventDetail,
			PlayDetail1:   row.PlayDetail1,
			PlayDetail2:   row.PlayDetail2,
			Zone:          row.Zone,
			TeamMention:   row.TeamMention,
			PlayerMention: row.PlayerMention,
			Opponent:      row.Opponent,
			SuccessMarker: row.SuccessMarker,
		})
	}

	return out, nil
}

func (r *RawDataRepository) ListShiftRowsByGame(ctx context.Context, gameID string) ([]rawdata.ShiftRow, error) {
	query, args, err := qb.Select(rawShiftSelectColumns...).
		From("raw_shift_rows").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("period", "start_seconds", "player_mention").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select raw shift rows query: %w", err)
	}

	var rows []rawShiftRowTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select raw shift rows game=%s: %w", gameID, err)
	}

	out := make([]rawdata.ShiftRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, rawdata.ShiftRow{
			GameID:        row.GameID,
			Period:        row.Period,
			StartSeconds:  row.StartSeconds,
			EndSeconds:    row.EndSeconds,
			PlayerMention: row.PlayerMention,
			TeamMention:   row.TeamMention,
		})
	}

	return out, nil
}
