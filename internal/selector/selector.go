// Package selector decides which event in a schedule snapshot matters right
// now. The pass ordering is the core business rule: a currently-playing game
// always outranks everything else, a just-finished game is shown briefly,
// then upcoming games take over.
package selector

import (
	"time"

	"sports-tracker/internal/domain"
	"sports-tracker/internal/timeutil"
)

// recentFinalWindow bounds how long a finished game stays relevant.
const recentFinalWindow = 5 * time.Hour

// SelectRelevant returns the single most relevant event in the snapshot, or
// nil when no event qualifies (off-day or offseason; disambiguate with
// IsOffseason). todayStr is the local calendar day of now.
func SelectRelevant(snapshot *domain.ScheduleSnapshot, todayStr string, now time.Time) *domain.Event {
	if snapshot == nil || len(snapshot.Days) == 0 {
		return nil
	}

	// Pass 1: a live event anywhere wins, regardless of which day bucket it
	// was filed under (events cross midnight in upstream bookkeeping).
	for _, day := range snapshot.Days {
		for i := range day.Events {
			if day.Events[i].Status == domain.StatusLive {
				return &day.Events[i]
			}
		}
	}

	// Pass 2: a final from today's bucket, finished within the window. The
	// event's own start-time day must also be today; a mis-filed event must
	// not surface.
	for _, day := range snapshot.Days {
		if day.Date != todayStr {
			continue
		}
		for i := range day.Events {
			ev := &day.Events[i]
			if ev.Status != domain.StatusFinal {
				continue
			}
			if timeutil.LocalDay(ev.StartTime) != todayStr {
				continue
			}
			elapsed := now.Sub(ev.StartTime)
			if elapsed > 0 && elapsed < recentFinalWindow {
				return ev
			}
		}
	}

	// Pass 3: today's next scheduled event.
	for _, day := range snapshot.Days {
		if day.Date != todayStr {
			continue
		}
		for i := range day.Events {
			if day.Events[i].Status == domain.StatusScheduled {
				return &day.Events[i]
			}
		}
	}

	// Pass 4: the nearest future scheduled event. Days are sorted ascending.
	for _, day := range snapshot.Days {
		if day.Date == todayStr {
			continue
		}
		for i := range day.Events {
			if day.Events[i].Status == domain.StatusScheduled {
				return &day.Events[i]
			}
		}
	}

	return nil
}

// IsOffseason interprets a no-selection outcome: true when no day in the
// snapshot has any events. An empty window cannot distinguish a genuine
// offseason from a fetch that silently produced an empty schedule; fetch
// failures surface as errors before this check, so the ambiguity only
// remains for successful fetches with empty payloads.
func IsOffseason(snapshot *domain.ScheduleSnapshot) bool {
	return !snapshot.HasEvents()
}
