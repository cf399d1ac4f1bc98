package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bluelinehq/rinkline/internal/domain/dimension"
	qb "github.com/bluelinehq/rinkline/internal/platform/querybuilder"
)

type DimensionRepository struct {
	db *sqlx.DB
}

var dimensionSelectColumns = []string{
	"entity_type",
	"entity_key",
	"name",
	"potential_values",
	"old_equivalents",
	"scope",
}

func NewDimensionRepository(db *sqlx.DB) *DimensionRepository {
	return &DimensionRepository{db: db}
}

func (r *DimensionRepository) ListEntities(ctx context.Context) ([]dimension.Entity, error) {
	query, args, err := qb.Select(dimensionSelectColumns...).
		From("dim_entities").
		OrderBy("entity_type", "entity_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select dimension entities query: %w", err)
	}

	var rows []dimensionEntityTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select dimension entities: %w", err)
	}

	out := make([]dimension.Entity, 0, len(rows))
	for _, row := range rows {
		out = append(out, dimension.Entity{
			Type:            dimension.EntityType(row.EntityType),
			Key:             row.EntityKey,
			Name:            row.Name,
			PotentialValues: append([]string(nil), row.PotentialValues...),
			OldEquivalents:  append([]string(nil), row.OldEquivalents...),
			Scope:           row.Scope,
		})
	}

	return out, nil
}

type ResolutionRepository struct {
	db *sqlx.DB
}

func NewResolutionRepository(db *sqlx.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

func (r *ResolutionRepository) SaveResolutions(ctx context.Context, runID string, resolutions []dimension.Resolution) error {
	if len(resolutions) == 0 {
		return nil
	}

	models := make([]any, 0, len(resolutions))
	for _, res := range resolutions {
		models = append(models, resolutionTableModel{
			RunID:      runID,
			Mention:    res.Mention,
			EntityType: string(res.EntityType),
			Scope:      res.Scope,
			EntityKey:  res.Key,
			Confidence: string(res.Confidence),
			Score:      res.Score,
			Reason:     res.Reason,
		})
	}

	query, args, err := qb.InsertModels("resolution_audit", models, "")
	if err != nil {
		return fmt.Errorf("build insert resolutions query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert resolutions run=%s: %w", runID, err)
	}

	return nil
}

func (r *ResolutionRepository) ListResolutionsByRun(ctx context.Context, runID string) ([]dimension.Resolution, error) {
	query, args, err := qb.Select("mention", "entity_type", "scope", "entity_key", "confidence", "score", "reason").
		From("resolution_audit").
		Where(qb.Eq("run_id", runID)).
		OrderBy("entity_type", "mention").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select resolutions query: %w", err)
	}

	var rows []resolutionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select resolutions run=%s: %w", runID, err)
	}

	out := make([]dimension.Resolution, 0, len(rows))
	for _, row := range rows {
		out = append(out, dimension.Resolution{
			Mention:    row.Mention,
			EntityType: dimension.EntityType(row.EntityType),
			Scope:      row.Scope,
			Key:        row.EntityKey,
			Confidence: dimension.Confidence(row.Confidence),
			Score:      row.Score,
			Reason:     row.Reason,
		})
	}

	return out, nil
}
