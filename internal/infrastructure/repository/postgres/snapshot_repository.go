package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	qb "github.com/bluelinehq/rinkline/internal/platform/querybuilder"
)

type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Get(ctx context.Context, gameID string) ([]byte, bool, error) {
	query, args, err := qb.Select("payload").
		From("accepted_snapshots").
		Where(qb.Eq("game_id", gameID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build select snapshot query: %w", err)
	}

	var payload []byte
	if err := r.db.GetContext(ctx, &payload, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select snapshot game=%s: %w", gameID, err)
	}

	return payload, true, nil
}

func (r *SnapshotRepository) Put(ctx context.Context, gameID string, payload []byte) error {
	query, args, err := qb.InsertInto("accepted_snapshots").
		Columns("game_id", "payload").
		Values(gameID, payload).
		Suffix(`ON CONFLICT (game_id)
DO UPDATE SET
    payload = EXCLUDED.payload,
    accepted_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert snapshot game=%s: %w", gameID, err)
	}

	return nil
}
