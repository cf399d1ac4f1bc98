package postgres

type rawEventRowTableModel struct {
	GameID        string  `db:"game_id"`
	Period        int     `db:"period"`
	ClockSeconds  float64 `db:"clock_seconds"`
	EventType     string  `db:"event_type"`
	EventDetail   string  `db:"event_detail"`
	PlayDetail1   string  `db:"play_detail_1"`
	PlayDetail2   string  `db:"play_detail_2"`
	Zone          string  `db:"zone"`
	TeamMention   string  `db:"team_mention"`
	PlayerMention string  `db:"player_mention"`
	Opponent      string  `db:"opponent"`
	SuccessMarker string  `db:"success_marker"`
}

type rawShiftRowTableModel struct {
	GameID        string  `db:"game_id"`
	Period        int     `db:"period"`
	StartSeconds  float64 `db:"start_seconds"`
	EndSeconds    float64 `db:"end_seconds"`
	PlayerMention string  `db:"player_mention"`
	TeamMention   string  `db:"team_mention"`
}
