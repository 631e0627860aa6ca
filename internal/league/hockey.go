package league

import (
	"log/slog"
	"strings"
	"time"

	"sports-tracker/internal/domain"
)

// HockeyLive is the in-play detail for a hockey game.
type HockeyLive struct {
	Period       int    `json:"period"`
	Clock        string `json:"clock"`
	Intermission bool   `json:"intermission"`
}

// NewHockey constructs the NHL league.
func NewHockey(logger *slog.Logger) League {
	return &espnLeague{
		key:      "nhl",
		name:     "NHL",
		apiPath:  "hockey/nhl",
		logoPath: "nhl",
		roster:   loadRoster("nhl-teams.json"),
		logger:   logger,
		liveFn:   parseHockeyLive,
		pauseFn:  hockeyPauseDelay,
	}
}

func parseHockeyLive(status espnStatus) any {
	period := status.Period
	if period <= 0 {
		period = 1
	}
	detail := strings.ToLower(status.Type.Detail)
	return &HockeyLive{
		Period:       period,
		Clock:        status.DisplayClock,
		Intermission: strings.Contains(detail, "intermission"),
	}
}

// hockeyPauseDelay backs off during intermissions.
func hockeyPauseDelay(event *domain.Event) time.Duration {
	if event != nil {
		if live, ok := event.Live.(*HockeyLive); ok && live.Intermission {
			return 2 * time.Minute
		}
	}
	return time.Minute
}
