package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("metric", "value").
		From("fact_rows").
		Where(Eq("game_id", "g1"), IsNull("retired_at")).
		OrderBy("metric").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT metric, value FROM fact_rows WHERE game_id = $1 AND retired_at IS NULL ORDER BY metric LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "g1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderDistinct(t *testing.T) {
	query, args, err := Select("game_id").
		Distinct().
		From("raw_event_rows").
		OrderBy("game_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT DISTINCT game_id FROM raw_event_rows ORDER BY game_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderMultiRow(t *testing.T) {
	query, args, err := InsertInto("fact_rows").
		Columns("game_id", "metric", "value").
		Values("g1", "goals", 1.0).
		Values("g1", "shot_attempts", 4.0).
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	want := "INSERT INTO fact_rows (game_id, metric, value) VALUES ($1, $2, $3), ($4, $5, $6)"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 6 || args[0] != "g1" || args[4] != "shot_attempts" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderSuffix(t *testing.T) {
	query, _, err := InsertInto("accepted_snapshots").
		Columns("game_id", "payload").
		Values("g1", []byte(`{}`)).
		Suffix("ON CONFLICT (game_id) DO UPDATE SET payload = EXCLUDED.payload").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	want := "INSERT INTO accepted_snapshots (game_id, payload) VALUES ($1, $2) ON CONFLICT (game_id) DO UPDATE SET payload = EXCLUDED.payload"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("fact_rows").
		Where(Eq("game_id", "g1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM fact_rows WHERE game_id = $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "g1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		GameID string  `db:"game_id"`
		Metric string  `db:"metric"`
		Value  float64 `db:"value"`
	}

	query, args, err := InsertModels("fact_rows", []any{
		row{GameID: "g1", Metric: "goals", Value: 1},
		row{GameID: "g1", Metric: "takeaways", Value: 2},
	}, "")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	want := "INSERT INTO fact_rows (game_id, metric, value) VALUES ($1, $2, $3), ($4, $5, $6)"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 6 || args[3] != "g1" || args[5] != 2.0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
