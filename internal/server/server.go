// Package server wires configuration, leagues, the fetch client, the
// orchestrator, and the HTTP surfaces into a running process.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"sports-tracker/internal/api"
	"sports-tracker/internal/cache"
	"sports-tracker/internal/config"
	"sports-tracker/internal/fetch"
	"sports-tracker/internal/league"
	"sports-tracker/internal/logging"
	"sports-tracker/internal/metrics"
	"sports-tracker/internal/tracker"
)

var metricsSetup = metrics.Setup

// Server owns the process-level components and their shutdown order.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	client        *fetch.Client
	cache         *cache.Cache
	orchestrator  *tracker.Orchestrator
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New constructs a fully wired server from configuration.
func New(cfg config.Config, logger *slog.Logger, service, version string) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	client := fetch.New(fetch.Config{
		MaxConcurrent: cfg.Fetch.MaxConcurrent,
		Timeout:       cfg.Fetch.Timeout,
		MaxRetries:    cfg.Fetch.MaxRetries,
		Logger:        logger,
		Metrics:       recorder,
	})

	dataCache := cache.New()
	icons := cache.NewIconCache(0)

	orch := tracker.New(tracker.Config{
		Sources:        buildSources(cfg, logger),
		Client:         client,
		Cache:          dataCache,
		Icons:          icons,
		Logger:         logger,
		Metrics:        recorder,
		LiveRefresh:    cfg.LiveRefresh,
		ScheduleMaxAge: cfg.ScheduleMaxAge,
		DebugMode:      cfg.DebugMode,
		IconDir:        cfg.IconDir,
	})

	apiSrv := api.New(orch, dataCache, logger, service, version, cfg.TimeZone)
	httpSrv := netHTTPServer{srv: &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      apiSrv.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		client:        client,
		cache:         dataCache,
		orchestrator:  orch,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}
}

// buildSources maps enabled league configs to tracker sources. A league whose
// team code is not in the roster is skipped with a log rather than aborting
// the whole process.
func buildSources(cfg config.Config, logger *slog.Logger) []tracker.Source {
	type slot struct {
		cfg   config.LeagueConfig
		build func(*slog.Logger) league.League
	}
	slots := []slot{
		{cfg.Leagues.Baseball, league.NewBaseball},
		{cfg.Leagues.Football, league.NewFootball},
		{cfg.Leagues.Hockey, league.NewHockey},
	}

	var sources []tracker.Source
	for _, s := range slots {
		if !s.cfg.Enabled {
			continue
		}
		lg := s.build(logger)
		teamID, ok := lg.TeamIDByCode(s.cfg.TeamCode)
		if !ok {
			logging.Warn(logger, "unknown team code, skipping league",
				logging.FieldLeague, lg.Key(), "team_code", s.cfg.TeamCode)
			continue
		}
		sources = append(sources, tracker.Source{
			Key:    lg.Key() + ":" + teamID,
			League: lg,
			TeamID: teamID,
		})
	}
	return sources
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{srv: &http.Server{
			Addr:    ":" + cfg.Metrics.Port,
			Handler: handler,
		}}
	}

	return rec, metricsSrv, shutdown
}

// Run starts the orchestrator and HTTP servers, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.orchestrator.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.orchestrator.Shutdown()
	s.client.Close()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	logging.Info(s.logger, "shutdown complete")
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", "addr", srv.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
