// Package config provides centralized configuration loaded from environment
// variables. Shared by every cardgraph subcommand; flags override these values.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultInputFile is the card sheet read when no filename is given.
const DefaultInputFile = "Ben___Marty_s_Baseball_Card_Collection_-_Pricing_Sheet.csv"

// --------------------------------------------------------------------------
// Output files: single source of truth, matches the paths the web app fetches
// --------------------------------------------------------------------------

const (
	NetworkFile = "network_data.json"
	PlayersFile = "players.json"
	TeamsFile   = "teams.json"
	ColorsFile  = "team_colors.json"
)

// OutputFiles lists every generated document in write order.
var OutputFiles = []string{NetworkFile, PlayersFile, TeamsFile, ColorsFile}

// --------------------------------------------------------------------------
// Table names: Postgres targets of the seed command
// --------------------------------------------------------------------------

const (
	CardTeamsTable       = "card_teams"
	CardPlayersTable     = "card_players"
	CardConnectionsTable = "card_connections"
)

// --------------------------------------------------------------------------
// Config struct: populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Regeneration
	InputFile         string
	OutputDir         string
	TablesFile        string
	KeepCompoundTeams bool
	ColorSeed         int64
	TopTeams          int

	// Logging
	LogLevel slog.Level

	// Database (seed command only)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server (serve command only)
	APIHost string
	APIPort int

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Serve: poll the input sheet and regenerate on change (0 = off)
	WatchInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// Nothing is mandatory here; commands validate what they need.
func Load() *Config {
	return &Config{
		InputFile:         envOr("CARDS_INPUT_FILE", DefaultInputFile),
		OutputDir:         envOr("CARDS_OUTPUT_DIR", "."),
		TablesFile:        envOr("CARDS_TABLES_FILE", ""),
		KeepCompoundTeams: envBool("CARDS_KEEP_COMPOUND_TEAMS", false),
		ColorSeed:         envInt64("CARDS_COLOR_SEED", 0),
		TopTeams:          envInt("CARDS_TOP_TEAMS", 10),

		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost: envOr("API_HOST", "0.0.0.0"),
		APIPort: envInt("API_PORT", envInt("PORT", 8000)),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8080",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		WatchInterval: time.Duration(envInt("CARDS_WATCH_INTERVAL", 0)) * time.Second,
	}
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return fallback
}
