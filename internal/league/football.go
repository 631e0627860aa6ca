package league

import (
	"log/slog"
	"strings"
	"time"

	"sports-tracker/internal/domain"
)

// FootballLive is the in-play detail for a football game.
type FootballLive struct {
	Quarter  int    `json:"quarter"`
	Clock    string `json:"clock"`
	Halftime bool   `json:"halftime"`
}

// NewFootball constructs the NFL league.
func NewFootball(logger *slog.Logger) League {
	return &espnLeague{
		key:      "nfl",
		name:     "NFL",
		apiPath:  "football/nfl",
		logoPath: "nfl",
		roster:   loadRoster("nfl-teams.json"),
		logger:   logger,
		liveFn:   parseFootballLive,
		pauseFn:  footballPauseDelay,
	}
}

func parseFootballLive(status espnStatus) any {
	quarter := status.Period
	if quarter <= 0 {
		quarter = 1
	}
	return &FootballLive{
		Quarter:  quarter,
		Clock:    status.DisplayClock,
		Halftime: strings.Contains(status.Type.Detail, "Halftime"),
	}
}

// footballPauseDelay backs off during halftime; play moves fast otherwise.
func footballPauseDelay(event *domain.Event) time.Duration {
	if event != nil {
		if live, ok := event.Live.(*FootballLive); ok && live.Halftime {
			return 5 * time.Minute
		}
	}
	return time.Minute
}
