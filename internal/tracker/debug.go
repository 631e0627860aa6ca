package tracker

import (
	"time"

	"sports-tracker/internal/domain"
	"sports-tracker/internal/league"
)

// Debug modes accepted by Config.DebugMode.
const (
	DebugLive      = "live"
	DebugPre       = "pre"
	DebugFinal     = "final"
	DebugOffseason = "offseason"
	DebugMixed     = "mixed"
)

var mixedStates = []string{DebugLive, DebugPre, DebugFinal}

// debugResults fabricates one result per source without touching the
// network, so display and scheduling behavior can be exercised year-round.
func (o *Orchestrator) debugResults(sources []Source) []domain.CycleResult {
	results := make([]domain.CycleResult, len(sources))
	for i, src := range sources {
		mode := o.debugMode
		if mode == DebugMixed {
			mode = mixedStates[i%len(mixedStates)]
		}
		results[i] = o.mockResult(src, mode)
	}
	return results
}

func (o *Orchestrator) mockResult(src Source, mode string) domain.CycleResult {
	res := domain.CycleResult{
		SourceKey: src.Key,
		League:    src.League.Key(),
		TeamID:    src.TeamID,
	}

	if mode == DebugOffseason {
		next := o.now().Add(47 * 24 * time.Hour)
		res.IsOffseason = true
		res.NextKnownDate = &next
		return res
	}

	home, away := o.mockTeams(src)
	now := o.now()
	event := &domain.Event{
		ID:    "debug-" + src.Key,
		Home:  domain.Side{TeamID: home.ID, Abbreviation: home.Abbrev},
		Away:  domain.Side{TeamID: away.ID, Abbreviation: away.Abbrev},
		Venue: "Debug Arena",
	}

	switch mode {
	case DebugLive:
		event.StartTime = now.Add(-90 * time.Minute)
		event.Status = domain.StatusLive
		event.StatusDetail = "In Progress"
		event.Home.Score = 4
		event.Away.Score = 2
		event.Live = mockLiveDetail(src.League.Key())
	case DebugFinal:
		event.StartTime = now.Add(-3 * time.Hour)
		event.Status = domain.StatusFinal
		event.StatusDetail = "Final"
		event.Home.Score = 6
		event.Away.Score = 3
	default: // pre
		event.StartTime = now.Add(3 * time.Hour)
		event.Status = domain.StatusScheduled
		event.StatusDetail = "Scheduled"
	}

	res.Event = event
	return res
}

// mockTeams returns the source's team and the first other team in the roster.
func (o *Orchestrator) mockTeams(src Source) (home, away league.Team) {
	teams := src.League.Teams()
	home = league.Team{ID: src.TeamID, Abbrev: "HOME"}
	away = league.Team{ID: "0", Abbrev: "AWAY"}
	for _, t := range teams {
		if t.ID == src.TeamID {
			home = t
			break
		}
	}
	for _, t := range teams {
		if t.ID != home.ID {
			away = t
			break
		}
	}
	return home, away
}

func mockLiveDetail(leagueKey string) any {
	switch leagueKey {
	case "mlb":
		return &league.BaseballLive{Inning: 5, Half: "Top", Outs: 1}
	case "nfl":
		return &league.FootballLive{Quarter: 3, Clock: "7:42"}
	case "nhl":
		return &league.HockeyLive{Period: 2, Clock: "12:33"}
	default:
		return nil
	}
}
