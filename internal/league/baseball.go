package league

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"sports-tracker/internal/domain"
)

// BaseballLive is the in-play detail for a baseball game.
type BaseballLive struct {
	Inning int    `json:"inning"`
	Half   string `json:"half"` // "Top" or "Bot"
	Outs   int    `json:"outs"`
}

var outsPattern = regexp.MustCompile(`(\d)\s*Out`)

// NewBaseball constructs the MLB league.
func NewBaseball(logger *slog.Logger) League {
	return &espnLeague{
		key:      "mlb",
		name:     "MLB",
		apiPath:  "baseball/mlb",
		logoPath: "mlb",
		roster:   loadRoster("mlb-teams.json"),
		logger:   logger,
		liveFn:   parseBaseballLive,
		// No pause concept between innings worth backing off for.
		pauseFn: func(*domain.Event) time.Duration { return time.Minute },
	}
}

func parseBaseballLive(status espnStatus) any {
	detail := status.Type.Detail
	half := "Bot"
	if strings.Contains(detail, "Top") {
		half = "Top"
	}
	outs := 0
	if m := outsPattern.FindStringSubmatch(detail); m != nil {
		outs = int(m[1][0] - '0')
	}
	inning := status.Period
	if inning <= 0 {
		inning = 1
	}
	return &BaseballLive{Inning: inning, Half: half, Outs: outs}
}
