package config

import "time"

const (
	envPort          = "PORT"
	envEnableMLB     = "ENABLE_MLB"
	envEnableNFL     = "ENABLE_NFL"
	envEnableNHL     = "ENABLE_NHL"
	envMLBTeam       = "MLB_TEAM"
	envNFLTeam       = "NFL_TEAM"
	envNHLTeam       = "NHL_TEAM"
	envLiveRefresh   = "LIVE_REFRESH"
	envTimeZone      = "TIME_ZONE"
	envDebugMode     = "DEBUG_MODE"
	envIconDir       = "ICON_DIR"
	envFetchTimeout  = "FETCH_TIMEOUT"
	envFetchMaxConc  = "FETCH_MAX_CONCURRENT"
	envFetchRetries  = "FETCH_MAX_RETRIES"
	envScheduleAge   = "SCHEDULE_MAX_AGE"
	envMetricsOn     = "METRICS_ENABLED"
	envMetricsPort   = "METRICS_PORT"
	envOtelService   = "OTEL_SERVICE_NAME"
	envOtelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelInsecure  = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort     = "4600"
	defaultTeamCode = "pit"
	// Per-attempt bound; slow upstream responses are treated as failures and retried.
	defaultFetchTimeout = 30 * time.Second
	// Process-wide in-flight cap; keeps multi-league fan-out under upstream quotas.
	defaultFetchMaxConcurrent = 3
	defaultFetchMaxRetries    = 3
	// Schedules move rarely; half an hour bounds redundant schedule fetches.
	defaultScheduleMaxAge = 30 * time.Minute
	defaultMetricsPort    = "9090"
	defaultServiceName    = "sports-tracker"
)
