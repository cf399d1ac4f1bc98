package memory

import (
	"github.com/bluelinehq/rinkline/internal/domain/dimension"
	"github.com/bluelinehq/rinkline/internal/domain/groundtruth"
	"github.com/bluelinehq/rinkline/internal/domain/rawdata"
)

const (
	GameIDSeasonOpener = "2025-10-04-AVA-BRW"
	GameIDHomeRematch  = "2025-10-11-BRW-AVA"

	TeamKeyAvalanche = "TEAM-AVA"
	TeamKeyBarrows   = "TEAM-BRW"
)

// SeedDimensions returns a small registry covering both seeded games.
func SeedDimensions() []dimension.Entity {
	return []dimension.Entity{
		{Type: dimension.TypeTeam, Key: TeamKeyAvalanche, Name: "Anchorage Avalanche", PotentialValues: []string{"Avalanche", "AVA", "Anchorage"}},
		{Type: dimension.TypeTeam, Key: TeamKeyBarrows, Name: "Barrow Whalers", PotentialValues: []string{"Whalers", "BRW", "Barrow"}, OldEquivalents: []string{"Barrow Bears"}},

		{Type: dimension.TypePlayer, Key: "PLR-AVA-09", Name: "Alex Petersson", PotentialValues: []string{"A. Petersson", "Petersson"}, Scope: TeamKeyAvalanche},
		{Type: dimension.TypePlayer, Key: "PLR-AVA-17", Name: "Riley Okafor", PotentialValues: []string{"R. Okafor", "Okafor"}, Scope: TeamKeyAvalanche},
		{Type: dimension.TypePlayer, Key: "PLR-BRW-04", Name: "Sam Ikeda", PotentialValues: []string{"S. Ikeda", "Ikeda"}, Scope: TeamKeyBarrows},
		{Type: dimension.TypePlayer, Key: "PLR-BRW-21", Name: "Jordan Malone", PotentialValues: []string{"J. Malone", "Malone"}, OldEquivalents: []string{"Maloney"}, Scope: TeamKeyBarrows},

		{Type: dimension.TypeZone, Key: "ZONE-OFF", Name: "Offensive", PotentialValues: []string{"Off", "O"}},
		{Type: dimension.TypeZone, Key: "ZONE-NEU", Name: "Neutral", PotentialValues: []string{"Neu", "N"}},
		{Type: dimension.TypeZone, Key: "ZONE-DEF", Name: "Defensive", PotentialValues: []string{"Def", "D"}},
	}
}

// SeedEventRows mirrors the tracked spreadsheet of the season opener: a
// faceoff, a missed shot, a goal, then a stoppage.
func SeedEventRows() []rawdata.EventRow {
	return []rawdata.EventRow{
		{GameID: GameIDSeasonOpener, Period: 1, ClockSeconds: 0, EventType: "GameStart", Zone: "Neutral"},
		{GameID: GameIDSeasonOpener, Period: 1, ClockSeconds: 2, EventType: "Faceoff", EventDetail: "Won", Zone: "Neutral", TeamMention: "Avalanche", PlayerMention: "Petersson", Opponent: "Ikeda"},
		{GameID: GameIDSeasonOpener, Period: 1, ClockSeconds: 24, EventType: "Shot", EventDetail: "Wide", Zone: "Off", TeamMention: "Avalanche", PlayerMention: "Okafor"},
		{GameID: GameIDSeasonOpener, Period: 1, ClockSeconds: 51, EventType: "Goal", EventDetail: "Goal_Scored", Zone: "Off", TeamMention: "Avalanche", PlayerMention: "Petersson"},
		{GameID: GameIDSeasonOpener, Period: 1, ClockSeconds: 52, EventType: "Stoppage", Zone: "Neutral"},

		{GameID: GameIDHomeRematch, Period: 1, ClockSeconds: 0, EventType: "GameStart", Zone: "Neutral"},
		{GameID: GameIDHomeRematch, Period: 1, ClockSeconds: 3, EventType: "Faceoff", EventDetail: "Won", Zone: "Neutral", TeamMention: "Whalers", PlayerMention: "Malone", Opponent: "Petersson"},
		{GameID: GameIDHomeRematch, Period: 1, ClockSeconds: 30, EventType: "Takeaway", Zone: "Def", TeamMention: "Avalanche", PlayerMention: "Okafor", Opponent: "Ikeda"},
		{GameID: GameIDHomeRematch, Period: 1, ClockSeconds: 47, EventType: "Shot", EventDetail: "Goal", Zone: "Off", TeamMention: "Avalanche", PlayerMention: "Okafor"},
		{GameID: GameIDHomeRematch, Period: 1, ClockSeconds: 48, EventType: "Stoppage", Zone: "Neutral"},
	}
}

func SeedShiftRows() []rawdata.ShiftRow {
	return []rawdata.ShiftRow{
		{GameID: GameIDSeasonOpener, Period: 1, StartSeconds: 0, EndSeconds: 55, PlayerMention: "Petersson", TeamMention: "Avalanche"},
		{GameID: GameIDSeasonOpener, Period: 1, StartSeconds: 0, EndSeconds: 60, PlayerMention: "Okafor", TeamMention: "Avalanche"},
		{GameID: GameIDSeasonOpener, Period: 1, StartSeconds: 0, EndSeconds: 58, PlayerMention: "Ikeda", TeamMention: "Whalers"},

		{GameID: GameIDHomeRematch, Period: 1, StartSeconds: 0, EndSeconds: 50, PlayerMention: "Malone", TeamMention: "Whalers"},
		{GameID: GameIDHomeRematch, Period: 1, StartSeconds: 0, EndSeconds: 50, PlayerMention: "Okafor", TeamMention: "Avalanche"},
	}
}

// SeedGroundTruth carries independently curated totals for the opener.
func SeedGroundTruth() []groundtruth.Reference {
	return []groundtruth.Reference{
		{GameID: GameIDSeasonOpener, Metric: "goals", PlayerKey: "PLR-AVA-09", Expected: 1},
		{GameID: GameIDSeasonOpener, Metric: "team_goals", TeamKey: TeamKeyAvalanche, Expected: 1},
		{GameID: GameIDSeasonOpener, Metric: "shot_attempts", PlayerKey: "PLR-AVA-17", Expected: 1},
	}
}
