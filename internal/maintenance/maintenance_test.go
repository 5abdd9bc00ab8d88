package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/cardgraph/internal/cache"
	"github.com/albapepper/cardgraph/internal/config"
	"github.com/albapepper/cardgraph/internal/pipeline"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatcher_DetectsEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	require.NoError(t, os.WriteFile(path, []byte("Player,Team,Year\n"), 0o644))

	w := NewWatcher(path)
	changed, err := w.Changed()
	require.NoError(t, err)
	assert.False(t, changed, "unchanged file")

	require.NoError(t, os.WriteFile(path, []byte("Player,Team,Year\nJones,Anaheim Angels,1999\n"), 0o644))
	changed, err = w.Changed()
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = w.Changed()
	require.NoError(t, err)
	assert.False(t, changed, "change is reported once")
}

func TestWatcher_MissingThenCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")

	w := NewWatcher(path)
	changed, err := w.Changed()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte("Player,Team,Year\n"), 0o644))
	changed, err = w.Changed()
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestCheckInput_RunsRegenerateOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	w := NewWatcher(path)

	runs := 0
	regenerate := func() error {
		runs++
		return errors.New("boom")
	}

	checkInput(w, regenerate, discardLogger())
	assert.Equal(t, 0, runs)

	require.NoError(t, os.WriteFile(path, []byte("Player,Team,Year\n"), 0o644))
	checkInput(w, regenerate, discardLogger())
	assert.Equal(t, 1, runs)

	// A failed regenerate is not retried until the file changes again.
	checkInput(w, regenerate, discardLogger())
	assert.Equal(t, 1, runs)
}

func TestRegenerateAndPurge(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "cards.csv")
	require.NoError(t, os.WriteFile(input, []byte("Player,Team,Year\nJones,California Angels,1998\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := cache.New(ctx, true)
	c.Set(config.TeamsFile, []byte("stale"), time.Minute)

	regenerate := RegenerateAndPurge(pipeline.Options{
		InputFile: input,
		OutputDir: dir,
		ColorSeed: 1,
	}, c, discardLogger())
	require.NoError(t, regenerate())

	_, _, ok := c.Get(config.TeamsFile)
	assert.False(t, ok, "cache purged")
	data, err := os.ReadFile(filepath.Join(dir, config.TeamsFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Anaheim Angels")
}

func TestStart_StopsOnCancel(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Start(ctx, Config{WatchInterval: time.Millisecond, StatsInterval: time.Millisecond}, Tasks{
			InputFile:  missing,
			Regenerate: func() error { return nil },
			Stats:      func() map[string]interface{} { return map[string]interface{}{"hits": 0} },
		}, discardLogger())
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
