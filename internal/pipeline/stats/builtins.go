package stats

import (
	"sort"

	"github.com/bluelinehq/rinkline/internal/domain/event"
	"github.com/bluelinehq/rinkline/internal/domain/fact"
)

// DefaultRegistry registers the built-in statistics. Registration is
// explicit so the set stays enumerable in tests.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	builtins := []Statistic{
		{Name: "goals", Grain: fact.GrainPlayerGame, RequiredColumns: []string{"player_key"}, Compute: playerGoals},
		{Name: "team_goals", Grain: fact.GrainTeamGame, RequiredColumns: []string{"team_key"}, Compute: teamGoals},
		{Name: "shot_attempts", Grain: fact.GrainPlayerGame, RequiredColumns: []string{"player_key"}, Compute: playerShotAttempts},
		{Name: "faceoff_wins", Grain: fact.GrainPlayerGame, RequiredColumns: []string{"player_key", "success"}, Compute: playerFaceoffWins},
		{Name: "takeaways", Grain: fact.GrainPlayerGame, RequiredColumns: []string{"player_key"}, Compute: playerCounter(event.TypeTakeaway, "takeaways")},
		{Name: "giveaways", Grain: fact.GrainPlayerGame, RequiredColumns: []string{"player_key"}, Compute: playerCounter(event.TypeGiveaway, "giveaways")},
		{Name: "possession_plays", Grain: fact.GrainTeamGame, RequiredColumns: []string{"team_key", "sequence_id"}, Compute: teamPossessionPlays},
		{Name: "sequences_started", Grain: fact.GrainTeamGame, RequiredColumns: []string{"team_key", "sequence_id"}, Compute: teamSequencesStarted},
		{Name: "toi_seconds", Grain: fact.GrainPlayerGame, RequiredColumns: []string{"shifts"}, Compute: playerTimeOnIce},
		{Name: "goals_for_on_ice", Grain: fact.GrainPlayerPairGame, RequiredColumns: []string{"player_key", "shifts"}, Compute: pairGoalsForOnIce},
	}
	for _, s := range builtins {
		// names are unique literals above; Register cannot fail here
		_ = r.Register(s)
	}
	return r
}

func playerGoals(v View) []fact.Row {
	counts := make(map[string]float64)
	for _, e := range v.Events {
		if e.IsGoal() && e.PlayerKey != "" {
			counts[e.PlayerKey]++
		}
	}
	return playerRows(v.GameID, "goals", counts)
}

func teamGoals(v View) []fact.Row {
	counts := make(map[string]float64)
	for _, e := range v.Events {
		if e.IsGoal() && e.TeamKey != "" {
			counts[e.TeamKey]++
		}
	}
	return teamRows(v.GameID, "team_goals", counts)
}

func playerShotAttempts(v View) []fact.Row {
	counts := make(map[string]float64)
	for _, e := range v.Events {
		if e.IsShotAttempt() && e.PlayerKey != "" {
			counts[e.PlayerKey]++
		}
	}
	return playerRows(v.GameID, "shot_attempts", counts)
}

func playerFaceoffWins(v View) []fact.Row {
	counts := make(map[string]float64)
	for _, e := range v.Events {
		if e.Type == event.TypeFaceoff && e.PlayerKey != "" && e.Success != nil && *e.Success {
			counts[e.PlayerKey]++
		}
	}
	return playerRows(v.GameID, "faceoff_wins", counts)
}

func playerCounter(eventType event.Type, metric string) Func {
	return func(v View) []fact.Row {
		counts := make(map[string]float64)
		for _, e := range v.Events {
			if e.Type == eventType && e.PlayerKey != "" {
				counts[e.PlayerKey]++
			}
		}
		return playerRows(v.GameID, metric, counts)
	}
}

func teamPossessionPlays(v View) []fact.Row {
	playTeams := make(map[int]string)
	for _, e := range v.Events {
		if e.PlayID > 0 && e.TeamKey != "" {
			if _, seen := playTeams[e.PlayID]; !seen {
				playTeams[e.PlayID] = e.TeamKey
			}
		}
	}
	counts := make(map[string]float64)
	for _, team := range playTeams {
		counts[team]++
	}
	return teamRows(v.GameID, "possession_plays", counts)
}

func teamSequencesStarted(v View) []fact.Row {
	sequenceTeams := make(map[int]string)
	for _, e := range v.Events {
		if e.SequenceID > 0 && e.TeamKey != "" {
			if _, seen := sequenceTeams[e.SequenceID]; !seen {
				sequenceTeams[e.SequenceID] = e.TeamKey
			}
		}
	}
	counts := make(map[string]float64)
	for _, team := range sequenceTeams {
		counts[team]++
	}
	return teamRows(v.GameID, "sequences_started", counts)
}

func playerTimeOnIce(v View) []fact.Row {
	totals := make(map[string]float64)
	for _, s := range v.Shifts {
		if s.Superseded || s.PlayerKey == "" {
			continue
		}
		totals[s.PlayerKey] += s.Duration()
	}
	return playerRows(v.GameID, "toi_seconds", totals)
}

// pairGoalsForOnIce credits each (scorer, on-ice teammate) pair with one
// goal-for. On-ice is determined from canonical shifts covering the goal
// clock in the goal's period.
func pairGoalsForOnIce(v View) []fact.Row {
	counts := make(map[[2]string]float64)
	teamForPair := make(map[[2]string]string)

	for _, e := range v.Events {
		if !e.IsGoal() || e.PlayerKey == "" {
			continue
		}
		for _, s := range v.Shifts {
			if s.Superseded || s.PlayerKey == "" || s.PlayerKey == e.PlayerKey {
				continue
			}
			if s.TeamKey != e.TeamKey || s.Period != e.Period {
				continue
			}
			if s.StartSeconds <= e.ClockSeconds && e.ClockSeconds <= s.EndSeconds {
				pair := orderedPair(e.PlayerKey, s.PlayerKey)
				counts[pair]++
				teamForPair[pair] = e.TeamKey
			}
		}
	}

	out := make([]fact.Row, 0, len(counts))
	for pair, value := range counts {
		out = append(out, fact.Row{
			GameID:    v.GameID,
			Grain:     fact.GrainPlayerPairGame,
			PlayerKey: pair[0],
			PairKey:   pair[1],
			TeamKey:   teamForPair[pair],
			Metric:    "goals_for_on_ice",
			Value:     value,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PlayerKey != out[j].PlayerKey {
			return out[i].PlayerKey < out[j].PlayerKey
		}
		return out[i].PairKey < out[j].PairKey
	})
	return out
}

func orderedPair(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func playerRows(gameID, metric string, counts map[string]float64) []fact.Row {
	keys := sortedKeys(counts)
	out := make([]fact.Row, 0, len(keys))
	for _, key := range keys {
		out = append(out, fact.Row{
			GameID:    gameID,
			Grain:     fact.GrainPlayerGame,
			PlayerKey: key,
			Metric:    metric,
			Value:     counts[key],
		})
	}
	return out
}

func teamRows(gameID, metric string, counts map[string]float64) []fact.Row {
	keys := sortedKeys(counts)
	out := make([]fact.Row, 0, len(keys))
	for _, key := range keys {
		out = append(out, fact.Row{
			GameID:  gameID,
			Grain:   fact.GrainTeamGame,
			TeamKey: key,
			Metric:  metric,
			Value:   counts[key],
		})
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for key := range m {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
