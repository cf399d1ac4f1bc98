// Package export serializes finished tables for the storage sync layer.
package export

import (
	"sort"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/bluelinehq/rinkline/internal/domain/fact"
	"github.com/bluelinehq/rinkline/internal/domain/qa"
)

// TableSet is one game's publishable output in the agreed shape.
type TableSet struct {
	GameID        string     `json:"game_id"`
	SchemaVersion int        `json:"schema_version"`
	Facts         []fact.Row `json:"facts"`
}

// Report is the serialized validation report for one run.
type Report struct {
	RunID    string       `json:"run_id"`
	Status   qa.RunStatus `json:"status"`
	Blocking int          `json:"blocking"`
	Warning  int          `json:"warning"`
	Info     int          `json:"informational"`
	Findings []qa.Finding `json:"findings"`
}

// EncodeTables produces the byte-stable JSON payload used both for the
// sync hand-off and for rebuild snapshot comparison. Rows are sorted so
// identical inputs always serialize to identical bytes.
func EncodeTables(gameID string, facts []fact.Row) ([]byte, error) {
	rows := make([]fact.Row, len(facts))
	copy(rows, facts)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Metric != b.Metric {
			return a.Metric < b.Metric
		}
		if a.TeamKey != b.TeamKey {
			return a.TeamKey < b.TeamKey
		}
		if a.PlayerKey != b.PlayerKey {
			return a.PlayerKey < b.PlayerKey
		}
		return a.PairKey < b.PairKey
	})

	payload := TableSet{GameID: gameID, SchemaVersion: fact.SchemaVersion, Facts: rows}
	out, err := sonic.ConfigStd.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "encode tables for game %s", gameID)
	}
	return out, nil
}

// EncodeReport serializes the findings report with tier counts.
func EncodeReport(runID string, status qa.RunStatus, findings []qa.Finding) ([]byte, error) {
	report := Report{
		RunID:    runID,
		Status:   status,
		Blocking: qa.CountByTier(findings, qa.TierBlocking),
		Warning:  qa.CountByTier(findings, qa.TierWarning),
		Info:     qa.CountByTier(findings, qa.TierInfo),
		Findings: findings,
	}
	out, err := sonic.ConfigStd.Marshal(report)
	if err != nil {
		return nil, errors.Wrapf(err, "encode report for run %s", runID)
	}
	return out, nil
}

// DecodeTables is the inverse of EncodeTables, used when diffing a new
// build against an accepted snapshot.
func DecodeTables(raw []byte) (TableSet, error) {
	var out TableSet
	if err := sonic.ConfigStd.Unmarshal(raw, &out); err != nil {
		return TableSet{}, errors.Wrap(err, "decode table snapshot")
	}
	return out, nil
}
