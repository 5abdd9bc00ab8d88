package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"CARDS_INPUT_FILE", "CARDS_OUTPUT_DIR", "CARDS_KEEP_COMPOUND_TEAMS", "LOG_LEVEL", "API_PORT", "PORT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, DefaultInputFile, cfg.InputFile)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.False(t, cfg.KeepCompoundTeams)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, 10, cfg.TopTeams)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CARDS_INPUT_FILE", "cards.xlsx")
	t.Setenv("CARDS_KEEP_COMPOUND_TEAMS", "true")
	t.Setenv("CARDS_COLOR_SEED", "42")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_WINDOW", "30")
	t.Setenv("CARDS_WATCH_INTERVAL", "15")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	assert.Equal(t, "cards.xlsx", cfg.InputFile)
	assert.True(t, cfg.KeepCompoundTeams)
	assert.Equal(t, int64(42), cfg.ColorSeed)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 15*time.Second, cfg.WatchInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("API_PORT", "eighty")
	t.Setenv("CACHE_ENABLED", "maybe")
	t.Setenv("LOG_LEVEL", "loud")

	cfg := Load()
	assert.Equal(t, 8000, cfg.APIPort)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
aliases:
  Florida Marlins: Miami Marlins
skip_players:
  - Rookie Prospects
colors:
  - team: Miami Marlins
    color: "#00A3E0"
  - team: Charlotte Knights
    color: "#111111"
`), 0o644))

	o, err := LoadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Florida Marlins": "Miami Marlins"}, o.Aliases)
	assert.Equal(t, []string{"Rookie Prospects"}, o.SkipPlayers)
	require.Len(t, o.Colors, 2)
	assert.Equal(t, ColorEntry{Team: "Charlotte Knights", Color: "#111111"}, o.Colors[1])
}

func TestLoadOverrides_EmptyPath(t *testing.T) {
	o, err := LoadOverrides("")
	require.NoError(t, err)
	assert.Empty(t, o.Aliases)
	assert.Empty(t, o.Colors)
}

func TestLoadOverrides_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadOverrides(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("colors:\n  - team: Only Team\n"), 0o644))
	_, err = LoadOverrides(bad)
	assert.ErrorContains(t, err, "colors[0]")
}
