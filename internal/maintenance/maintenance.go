// Package maintenance runs periodic background tasks as Go tickers while the
// API is serving: re-running regeneration when the card sheet changes and
// reporting cache statistics.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	WatchInterval time.Duration // Poll the input sheet for changes
	StatsInterval time.Duration // Log cache statistics
}

// Tasks holds the work each ticker performs.
type Tasks struct {
	// InputFile is polled every WatchInterval.
	InputFile string
	// Regenerate runs when InputFile changes.
	Regenerate func() error
	// Stats returns the values logged every StatsInterval.
	Stats func() map[string]interface{}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, cfg Config, tasks Tasks, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"watch", cfg.WatchInterval,
		"stats", cfg.StatsInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	// Watch: regenerate when the card sheet is replaced or edited
	if cfg.WatchInterval > 0 && tasks.Regenerate != nil {
		w := NewWatcher(tasks.InputFile)
		t := time.NewTicker(cfg.WatchInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { checkInput(w, tasks.Regenerate, logger) })
	}

	// Stats: periodic cache report
	if cfg.StatsInterval > 0 && tasks.Stats != nil {
		t := time.NewTicker(cfg.StatsInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { logStats(tasks.Stats(), logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Input watcher
// --------------------------------------------------------------------------

// Watcher detects changes to a file by modification time and size.
type Watcher struct {
	path    string
	modTime time.Time
	size    int64
	seen    bool
}

// NewWatcher records the file's current state. A missing file is fine; its
// later appearance counts as a change.
func NewWatcher(path string) *Watcher {
	w := &Watcher{path: path}
	if info, err := os.Stat(path); err == nil {
		w.record(info)
	}
	return w
}

// Changed reports whether the file differs from the last observed state and
// records the new state. A file that is currently missing is not a change.
func (w *Watcher) Changed() (bool, error) {
	info, err := os.Stat(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", w.path, err)
	}
	if w.seen && info.ModTime().Equal(w.modTime) && info.Size() == w.size {
		return false, nil
	}
	w.record(info)
	return true, nil
}

func (w *Watcher) record(info fs.FileInfo) {
	w.modTime = info.ModTime()
	w.size = info.Size()
	w.seen = true
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

func checkInput(w *Watcher, regenerate func() error, logger *slog.Logger) {
	changed, err := w.Changed()
	if err != nil {
		logger.Warn("Watch: failed to check input", "error", err)
		return
	}
	if !changed {
		return
	}

	start := time.Now()
	logger.Info("Watch: input changed, regenerating", "path", w.path)
	if err := regenerate(); err != nil {
		logger.Warn("Watch: regenerate failed", "error", err)
		return
	}
	logger.Info("Watch: regenerated", "duration", time.Since(start).Round(time.Millisecond))
}

func logStats(stats map[string]interface{}, logger *slog.Logger) {
	args := make([]any, 0, len(stats)*2)
	for k, v := range stats {
		args = append(args, k, v)
	}
	logger.Info("Cache stats", args...)
}
