package league

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"sports-tracker/internal/domain"
	"sports-tracker/internal/logging"
	"sports-tracker/internal/timeutil"
)

const espnBaseURL = "https://site.api.espn.com/apis/site/v2/sports"

// liveParser maps a live competition status into a league-specific detail
// value. It is only consulted for events whose mapped status is Live.
type liveParser func(status espnStatus) any

// pauseFunc returns the live refresh delay for an event, honoring breaks.
type pauseFunc func(event *domain.Event) time.Duration

// espnLeague is the shared implementation behind every league variant.
// Per-league behavior is injected as data and small functions rather than
// subclassing.
type espnLeague struct {
	key      string
	name     string
	apiPath  string // e.g. "baseball/mlb"
	logoPath string // e.g. "mlb"
	roster   []Team
	logger   *slog.Logger
	liveFn   liveParser
	pauseFn  pauseFunc
}

func (l *espnLeague) Key() string  { return l.key }
func (l *espnLeague) Name() string { return l.name }

func (l *espnLeague) ScheduleURL(teamID string) string {
	return fmt.Sprintf("%s/%s/teams/%s/schedule", espnBaseURL, l.apiPath, teamID)
}

func (l *espnLeague) SummaryURL(eventID string) string {
	return fmt.Sprintf("%s/%s/summary?event=%s", espnBaseURL, l.apiPath, eventID)
}

func (l *espnLeague) LogoURL(teamID string) string {
	code := ""
	for _, t := range l.roster {
		if t.ID == teamID {
			code = t.Code
			break
		}
	}
	return fmt.Sprintf("https://a.espncdn.com/i/teamlogos/%s/500/%s.png", l.logoPath, code)
}

func (l *espnLeague) Teams() []Team { return l.roster }

func (l *espnLeague) TeamIDByCode(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, t := range l.roster {
		if t.Code == code {
			return t.ID, true
		}
	}
	return "", false
}

func (l *espnLeague) PauseDelay(event *domain.Event) time.Duration {
	return l.pauseFn(event)
}

// --- payload shapes (the subset of the upstream response we consume) ---

type espnSchedule struct {
	Events []espnEvent `json:"events"`
}

type espnEvent struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Competitions []espnCompetition `json:"competitions"`
}

type espnCompetition struct {
	Date        string           `json:"date"`
	Competitors []espnCompetitor `json:"competitors"`
	Status      espnStatus       `json:"status"`
	Venue       struct {
		FullName string `json:"fullName"`
	} `json:"venue"`
}

type espnCompetitor struct {
	HomeAway string          `json:"homeAway"`
	Score    json.RawMessage `json:"score"`
	Team     struct {
		ID           string `json:"id"`
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
}

type espnStatus struct {
	Period       int    `json:"period"`
	DisplayClock string `json:"displayClock"`
	Type         struct {
		State  string `json:"state"`
		Detail string `json:"detail"`
	} `json:"type"`
}

type espnSummary struct {
	Header struct {
		ID           string            `json:"id"`
		Competitions []espnCompetition `json:"competitions"`
		GameInfo     struct {
			StartTime string `json:"startTime"`
		} `json:"gameInfo"`
	} `json:"header"`
}

// mapState normalizes the provider status vocabulary.
func mapState(state string) domain.Status {
	switch state {
	case "in", "live":
		return domain.StatusLive
	case "post":
		return domain.StatusFinal
	case "postponed":
		return domain.StatusPostponed
	case "cancelled", "canceled":
		return domain.StatusCancelled
	default:
		return domain.StatusScheduled
	}
}

// parseScore tolerates the three shapes the provider emits: a bare number,
// a numeric string, or an object with value/displayValue.
func parseScore(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return v
		}
		return 0
	}

	var obj struct {
		Value        *float64 `json:"value"`
		DisplayValue string   `json:"displayValue"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Value != nil {
			return int(*obj.Value)
		}
		if v, err := strconv.Atoi(strings.TrimSpace(obj.DisplayValue)); err == nil {
			return v
		}
	}
	return 0
}

// parseEvent maps one upstream event to the domain shape. Events failing
// validation are rejected here and never constructed downstream.
func (l *espnLeague) parseEvent(id, date string, comps []espnCompetition) (*domain.Event, error) {
	if len(comps) == 0 {
		return nil, fmt.Errorf("event %s: no competition data", id)
	}
	comp := comps[0]

	var home, away *espnCompetitor
	for i := range comp.Competitors {
		switch comp.Competitors[i].HomeAway {
		case "home":
			home = &comp.Competitors[i]
		case "away":
			away = &comp.Competitors[i]
		}
	}
	if home == nil || away == nil {
		return nil, fmt.Errorf("event %s: missing home or away competitor", id)
	}

	start, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return nil, fmt.Errorf("event %s: bad start time %q: %w", id, date, err)
	}

	status := mapState(comp.Status.Type.State)
	ev := &domain.Event{
		ID:        id,
		StartTime: start,
		Home: domain.Side{
			TeamID:       home.Team.ID,
			Abbreviation: home.Team.Abbreviation,
			Score:        parseScore(home.Score),
		},
		Away: domain.Side{
			TeamID:       away.Team.ID,
			Abbreviation: away.Team.Abbreviation,
			Score:        parseScore(away.Score),
		},
		Status:       status,
		StatusDetail: comp.Status.Type.Detail,
		Venue:        comp.Venue.FullName,
	}
	if status == domain.StatusLive && l.liveFn != nil {
		ev.Live = l.liveFn(comp.Status)
	}

	if err := ev.Validate(); err != nil {
		return nil, fmt.Errorf("event %s: %w", id, err)
	}
	return ev, nil
}

// ParseSchedule buckets the payload's events by local calendar day within
// [now, now+window], sorted ascending. Malformed events are dropped and
// logged, never propagated. The earliest future event, even one outside the
// window, is retained as the next known event date.
func (l *espnLeague) ParseSchedule(raw json.RawMessage, now time.Time, window time.Duration) (*domain.ScheduleSnapshot, error) {
	var payload espnSchedule
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%s schedule payload: %w", l.key, err)
	}

	end := now.Add(window)
	buckets := make(map[string][]domain.Event)
	var nextKnown *time.Time

	for _, raw := range payload.Events {
		ev, err := l.parseEvent(raw.ID, raw.Date, raw.Competitions)
		if err != nil {
			logging.Warn(l.logger, "dropping malformed event",
				logging.FieldLeague, l.key, "error", err)
			continue
		}

		if ev.StartTime.After(now) {
			if nextKnown == nil || ev.StartTime.Before(*nextKnown) {
				t := ev.StartTime
				nextKnown = &t
			}
		}

		if ev.StartTime.Before(windowStart(now)) || ev.StartTime.After(end) {
			continue
		}

		day := timeutil.LocalDay(ev.StartTime)
		buckets[day] = append(buckets[day], *ev)
	}

	days := make([]domain.DaySchedule, 0, len(buckets))
	for date, events := range buckets {
		sort.Slice(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
		days = append(days, domain.DaySchedule{Date: date, Events: events})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return &domain.ScheduleSnapshot{Days: days, NextKnownEventDate: nextKnown}, nil
}

// windowStart anchors the window at the preceding local midnight so today's
// already-started events stay inside it.
func windowStart(now time.Time) time.Time {
	local := now.Local()
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, local.Location())
}

// ParseLiveUpdate maps a summary payload into a refreshed event.
func (l *espnLeague) ParseLiveUpdate(raw json.RawMessage) (*domain.Event, error) {
	var payload espnSummary
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%s summary payload: %w", l.key, err)
	}
	header := payload.Header
	if header.ID == "" || len(header.Competitions) == 0 {
		return nil, fmt.Errorf("%s summary payload: missing header", l.key)
	}

	date := header.GameInfo.StartTime
	if date == "" {
		date = header.Competitions[0].Date
	}
	return l.parseEvent(header.ID, date, header.Competitions)
}
