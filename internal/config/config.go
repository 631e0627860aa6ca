package config

import "time"

// Config holds runtime configuration for the tracker process.
type Config struct {
	Port           string
	Leagues        LeaguesConfig
	LiveRefresh    time.Duration // live poll override; 0 defers to league pause delays
	TimeZone       string        // display timezone, not used for day-boundary math
	DebugMode      string        // "", "live", "pre", "final", "offseason", "mixed"
	IconDir        string        // team logo download directory; empty disables prefetch
	Fetch          FetchConfig
	ScheduleMaxAge time.Duration
	Metrics        MetricsConfig
}

// LeagueConfig is one league's tracking slot.
type LeagueConfig struct {
	Enabled  bool
	TeamCode string
}

// LeaguesConfig enumerates the supported leagues.
type LeaguesConfig struct {
	Baseball LeagueConfig
	Football LeagueConfig
	Hockey   LeagueConfig
}

// FetchConfig tunes the HTTP fetch client.
type FetchConfig struct {
	Timeout       time.Duration
	MaxConcurrent int
	MaxRetries    int
}

// MetricsConfig controls telemetry export.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port: envOrDefault(envPort, defaultPort),
		Leagues: LeaguesConfig{
			Baseball: LeagueConfig{
				Enabled:  boolEnvOrDefault(envEnableMLB, true),
				TeamCode: envOrDefault(envMLBTeam, defaultTeamCode),
			},
			Football: LeagueConfig{
				Enabled:  boolEnvOrDefault(envEnableNFL, true),
				TeamCode: envOrDefault(envNFLTeam, defaultTeamCode),
			},
			Hockey: LeagueConfig{
				Enabled:  boolEnvOrDefault(envEnableNHL, true),
				TeamCode: envOrDefault(envNHLTeam, defaultTeamCode),
			},
		},
		LiveRefresh: durationEnvOrDefault(envLiveRefresh, 0),
		TimeZone:    envOrDefault(envTimeZone, ""),
		DebugMode:   envOrDefault(envDebugMode, ""),
		IconDir:     envOrDefault(envIconDir, ""),
		Fetch: FetchConfig{
			Timeout:       durationEnvOrDefault(envFetchTimeout, defaultFetchTimeout),
			MaxConcurrent: intEnvOrDefault(envFetchMaxConc, defaultFetchMaxConcurrent),
			MaxRetries:    intEnvOrDefault(envFetchRetries, defaultFetchMaxRetries),
		},
		ScheduleMaxAge: durationEnvOrDefault(envScheduleAge, defaultScheduleMaxAge),
		Metrics:        loadMetrics(),
	}
}

func loadMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(envMetricsOn, false),
		Port:         envOrDefault(envMetricsPort, defaultMetricsPort),
		ServiceName:  envOrDefault(envOtelService, defaultServiceName),
		OtlpEndpoint: envOrDefault(envOtelEndpoint, ""),
		OtlpInsecure: boolEnvOrDefault(envOtelInsecure, false),
	}
}
