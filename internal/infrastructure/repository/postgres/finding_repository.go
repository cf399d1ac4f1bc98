package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bluelinehq/rinkline/internal/domain/qa"
	qb "github.com/bluelinehq/rinkline/internal/platform/querybuilder"
)

type FindingRepository struct {
	db *sqlx.DB
}

type findingTableModel struct {
	RunID     string `db:"run_id"`
	Tier      int    `db:"tier"`
	RuleID    string `db:"rule_id"`
	TableName string `db:"table_name"`
	RowRef    string `db:"row_ref"`
	Message   string `db:"message"`
}

type runReportTableModel struct {
	RunID      string    `db:"run_id"`
	Status     string    `db:"status"`
	Blocking   int       `db:"blocking_count"`
	Warnings   int       `db:"warning_count"`
	Infos      int       `db:"info_count"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}

func NewFindingRepository(db *sqlx.DB) *FindingRepository {
	return &FindingRepository{db: db}
}

func (r *FindingRepository) SaveFindings(ctx context.Context, runID string, findings []qa.Finding) error {
	if len(findings) == 0 {
		return nil
	}

	models := make([]any, 0, len(findings))
	for _, finding := range findings {
		models = append(models, findingTableModel{
			RunID:     runID,
			Tier:      int(finding.Tier),
			RuleID:    finding.RuleID,
			TableName: finding.Table,
			RowRef:    finding.RowRef,
			Message:   finding.Message,
		})
	}

	query, args, err := qb.InsertModels("qa_findings", models, "")
	if err != nil {
		return fmt.Errorf("build insert findings query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert findings run=%s: %w", runID, err)
	}

	return nil
}

func (r *FindingRepository) ListFindingsByRun(ctx context.Context, runID string) ([]qa.Finding, error) {
	query, args, err := qb.Select("tier", "rule_id", "table_name", "row_ref", "message").
		From("qa_findings").
		Where(qb.Eq("run_id", runID)).
		OrderBy("tier", "rule_id", "table_name", "row_ref").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select findings query: %w", err)
	}

	var rows []findingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select findings run=%s: %w", runID, err)
	}

	out := make([]qa.Finding, 0, len(rows))
	for _, row := range rows {
		out = append(out, qa.Finding{
			Tier:    qa.Tier(row.Tier),
			RuleID:  row.RuleID,
			Table:   row.TableName,
			RowRef:  row.RowRef,
			Message: row.Message,
		})
	}

	return out, nil
}

func (r *FindingRepository) SaveReport(ctx context.Context, report qa.Report) error {
	model := runReportTableModel{
		RunID:      report.RunID,
		Status:     string(report.Status),
		Blocking:   qa.CountByTier(report.Findings, qa.TierBlocking),
		Warnings:   qa.CountByTier(report.Findings, qa.TierWarning),
		Infos:      qa.CountByTier(report.Findings, qa.TierInfo),
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
	}

	query, args, err := qb.InsertModel("qa_run_reports", model, `ON CONFLICT (run_id)
DO UPDATE SET
    status = EXCLUDED.status,
    blocking_count = EXCLUDED.blocking_count,
    warning_count = EXCLUDED.warning_count,
    info_count = EXCLUDED.info_count,
    finished_at = EXCLUDED.finished_at`)
	if err != nil {
		return fmt.Errorf("build upsert run report query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert run report run=%s: %w", report.RunID, err)
	}

	return nil
}
