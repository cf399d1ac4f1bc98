package rawdata

import "context"

// EventRow is one tracked-event spreadsheet row as handed over by the
// ingestion collaborator. All categorical fields are free text.
type EventRow struct {
	GameID        string
	Period        int
	ClockSeconds  float64
	EventType     string
	EventDetail   string
	PlayDetail1   string
	PlayDetail2   string
	Zone          string
	TeamMention   string
	PlayerMention string
	Opponent      string
	SuccessMarker string
}

// ShiftRow is one raw shift interval row.
type ShiftRow struct {
	GameID        string
	Period        int
	StartSeconds  float64
	EndSeconds    float64
	PlayerMention string
	TeamMention   string
}

// Repository reads materialized raw tables. Spreadsheet parsing lives
// upstream; rows arrive already columnar.
type Repository interface {
	ListGameIDs(ctx context.Context) ([]string, error)
	ListEventRowsByGame(ctx context.Context, gameID string) ([]EventRow, error)
	ListShiftRowsByGame(ctx context.Context, gameID string) ([]ShiftRow, error)
}
