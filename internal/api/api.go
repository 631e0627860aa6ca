// Package api exposes the tracker's state over HTTP for widgets and
// dashboards to consume.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"sports-tracker/internal/domain"
	"sports-tracker/internal/logging"
	"sports-tracker/internal/tracker"
)

// Tracker is the read surface of the orchestrator the API serves from.
type Tracker interface {
	Sources() []tracker.Source
	Results() []domain.CycleResult
	LastCycleAt() time.Time
	Updating() bool
}

// ScheduleStore reads cached schedule snapshots.
type ScheduleStore interface {
	Schedule(key string) *domain.ScheduleSnapshot
}

// Server holds handler dependencies.
type Server struct {
	tracker  Tracker
	store    ScheduleStore
	logger   *slog.Logger
	service  string
	version  string
	timezone string
}

// New constructs a Server. timezone is the display timezone name reported in
// /status, not used for any computation here.
func New(t Tracker, store ScheduleStore, logger *slog.Logger, service, version, timezone string) *Server {
	return &Server{
		tracker:  t,
		store:    store,
		logger:   logger,
		service:  service,
		version:  version,
		timezone: timezone,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/status", s.handleStatus)
	r.Get("/sources", s.handleSources)
	r.Get("/sources/{key}/schedule", s.handleSchedule)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports ready only after the first update cycle has landed, so
// load balancers don't route to an instance with nothing to serve.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.tracker.LastCycleAt().IsZero() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "waiting for first cycle"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type statusResponse struct {
	Service     string               `json:"service"`
	Version     string               `json:"version"`
	Timezone    string               `json:"timezone"`
	Updating    bool                 `json:"updating"`
	LastCycleAt *time.Time           `json:"last_cycle_at,omitempty"`
	Results     []domain.CycleResult `json:"results"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Service:  s.service,
		Version:  s.version,
		Timezone: s.timezone,
		Updating: s.tracker.Updating(),
		Results:  s.tracker.Results(),
	}
	if at := s.tracker.LastCycleAt(); !at.IsZero() {
		resp.LastCycleAt = &at
	}
	writeJSON(w, http.StatusOK, resp)
}

type sourceInfo struct {
	Key    string `json:"key"`
	League string `json:"league"`
	TeamID string `json:"team_id"`
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	sources := s.tracker.Sources()
	out := make([]sourceInfo, 0, len(sources))
	for _, src := range sources {
		out = append(out, sourceInfo{Key: src.Key, League: src.League.Key(), TeamID: src.TeamID})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	snapshot := s.store.Schedule(key)
	if snapshot == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown source or no schedule cached"})
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Info(s.logger, "http request",
			"method", r.Method,
			logging.FieldURL, r.URL.Path,
			logging.FieldStatusCode, ww.Status(),
			logging.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
