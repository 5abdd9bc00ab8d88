// Command cardgraph turns a baseball card collection sheet into the JSON
// documents behind the card network visualization.
//
// Usage:
//
//	cardgraph regenerate --input cards.csv --out data/
//	cardgraph teams --top 20
//	cardgraph seed --prune
//	cardgraph serve --data data/ --watch 30s
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/cardgraph/internal/aggregate"
	"github.com/albapepper/cardgraph/internal/api"
	"github.com/albapepper/cardgraph/internal/cache"
	"github.com/albapepper/cardgraph/internal/cards"
	"github.com/albapepper/cardgraph/internal/colors"
	"github.com/albapepper/cardgraph/internal/config"
	"github.com/albapepper/cardgraph/internal/db"
	"github.com/albapepper/cardgraph/internal/maintenance"
	"github.com/albapepper/cardgraph/internal/pipeline"
	"github.com/albapepper/cardgraph/internal/seed"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg := config.Load()
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := newRootCmd(cfg).Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "cardgraph",
		Short:         "Baseball card collection data generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(regenerateCmd(cfg))
	root.AddCommand(teamsCmd(cfg))
	root.AddCommand(seedCmd(cfg))
	root.AddCommand(serveCmd(cfg))
	return root
}

// reportError distinguishes a missing card sheet, which gets a clean
// message, from everything else, which is logged with its full error chain.
func reportError(err error) {
	if errors.Is(err, cards.ErrInputNotFound) {
		var pathErr *fs.PathError
		path := ""
		if errors.As(err, &pathErr) {
			path = pathErr.Path
		}
		logger.Error("Could not find input file; make sure it is in the current directory", "path", path)
		return
	}
	logger.Error("Run failed", "error", err)
}

// --------------------------------------------------------------------------
// Shared regeneration flags
// --------------------------------------------------------------------------

type runFlags struct {
	input        string
	tablesFile   string
	keepCompound bool
	colorSeed    int64
	noPrompt     bool
}

func (f *runFlags) register(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Card sheet (.csv or .xlsx); prompts when empty")
	cmd.Flags().StringVar(&f.tablesFile, "tables", cfg.TablesFile, "YAML file extending aliases, skipped players and colours")
	cmd.Flags().BoolVar(&f.keepCompound, "keep-compound", cfg.KeepCompoundTeams, `Keep "Team A / Team B" rows instead of dropping them`)
	cmd.Flags().Int64Var(&f.colorSeed, "color-seed", cfg.ColorSeed, "Seed for generated colours (0 = random)")
	cmd.Flags().BoolVar(&f.noPrompt, "no-prompt", false, "Use the configured input file instead of prompting")
}

// options resolves the input file and tables into pipeline options.
func (f *runFlags) options(cmd *cobra.Command, cfg *config.Config) (pipeline.Options, error) {
	input := f.input
	if input == "" {
		if f.noPrompt {
			input = cfg.InputFile
		} else {
			var err error
			input, err = promptInput(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.InputFile)
			if err != nil {
				return pipeline.Options{}, err
			}
		}
	}

	overrides, err := config.LoadOverrides(f.tablesFile)
	if err != nil {
		return pipeline.Options{}, err
	}
	tables := cards.DefaultTables()
	tables.Merge(overrides)
	if err := tables.Validate(); err != nil {
		return pipeline.Options{}, fmt.Errorf("validate tables: %w", err)
	}
	palette := colors.DefaultPalette()
	palette.Merge(overrides)

	return pipeline.Options{
		InputFile:    input,
		OutputDir:    cfg.OutputDir,
		Tables:       tables,
		Palette:      palette,
		KeepCompound: f.keepCompound,
		ColorSeed:    f.colorSeed,
		TopTeams:     cfg.TopTeams,
	}, nil
}

// promptInput asks for the card sheet name; a blank answer or closed input
// selects the default.
func promptInput(in io.Reader, out io.Writer, fallback string) (string, error) {
	fmt.Fprint(out, "Enter CSV filename (or press Enter for default): ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read filename: %w", err)
	}
	if name := strings.TrimSpace(line); name != "" {
		return name, nil
	}
	return fallback, nil
}

// --------------------------------------------------------------------------
// regenerate command
// --------------------------------------------------------------------------

func regenerateCmd(cfg *config.Config) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Regenerate network, player, team and colour JSON files",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, cfg)
			if err != nil {
				return err
			}
			start := time.Now()
			result, err := pipeline.Regenerate(opts, logger)
			if err != nil {
				return err
			}
			logger.Info("Regenerate finished",
				"duration", time.Since(start).Round(time.Millisecond),
				"summary", result.Summary())
			return nil
		},
	}
	flags.register(cmd, cfg)
	cmd.Flags().StringVarP(&cfg.OutputDir, "out", "o", cfg.OutputDir, "Directory for the generated JSON files")
	return cmd
}

// --------------------------------------------------------------------------
// teams command
// --------------------------------------------------------------------------

func teamsCmd(cfg *config.Config) *cobra.Command {
	var flags runFlags
	var top int
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Print teams ranked by card count without writing files",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, cfg)
			if err != nil {
				return err
			}
			raw, err := cards.Load(opts.InputFile)
			if err != nil {
				return err
			}
			records, fr := cards.NewFilter(opts.Tables, opts.KeepCompound).Apply(raw)
			logger.Debug("Cards filtered", "summary", fr.Summary())
			return printRanking(cmd.OutOrStdout(), aggregate.TopTeams(records, top))
		},
	}
	flags.register(cmd, cfg)
	cmd.Flags().IntVar(&top, "top", cfg.TopTeams, "Number of teams to list (0 = all)")
	return cmd
}

func printRanking(out io.Writer, ranked []aggregate.TeamCount) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tTEAM\tCARDS")
	for i, tc := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", i+1, tc.Team, tc.Cards)
	}
	return tw.Flush()
}

// --------------------------------------------------------------------------
// seed command
// --------------------------------------------------------------------------

func seedCmd(cfg *config.Config) *cobra.Command {
	var flags runFlags
	var prune bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Publish the aggregates to Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, cfg)
			if err != nil {
				return err
			}
			result, err := pipeline.Build(opts, logger)
			if err != nil {
				return err
			}
			return runSeed(cfg, func(ctx context.Context, pool *db.Pool) error {
				tx, err := pool.Begin(ctx)
				if err != nil {
					return fmt.Errorf("begin: %w", err)
				}
				defer tx.Rollback(ctx)

				start := time.Now()
				sr := seed.Publish(ctx, tx, result.Documents, prune, logger)
				if len(sr.Errors) > 0 {
					for _, e := range sr.Errors {
						logger.Error("seed error", "error", e)
					}
					return fmt.Errorf("seed failed with %d errors, rolled back", len(sr.Errors))
				}
				if err := tx.Commit(ctx); err != nil {
					return fmt.Errorf("commit: %w", err)
				}
				logger.Info("Seed finished", "duration", time.Since(start).Round(time.Millisecond), "summary", sr.Summary())
				return nil
			})
		},
	}
	flags.register(cmd, cfg)
	cmd.Flags().BoolVar(&prune, "prune", false, "Delete rows no longer present in the generated data")
	return cmd
}

// runSeed handles DB connection and context cancellation.
func runSeed(cfg *config.Config, fn func(ctx context.Context, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	logger.Info("Connected to database")

	return fn(ctx, pool)
}

// --------------------------------------------------------------------------
// serve command
// --------------------------------------------------------------------------

func serveCmd(cfg *config.Config) *cobra.Command {
	var flags runFlags
	var dataDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated JSON files over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			appCache := cache.New(ctx, cfg.CacheEnabled)
			logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

			tasks := maintenance.Tasks{Stats: appCache.Stats}
			if cfg.WatchInterval > 0 {
				// Regenerate into the directory being served.
				flags.noPrompt = true
				opts, err := flags.options(cmd, cfg)
				if err != nil {
					return err
				}
				opts.OutputDir = dataDir
				tasks.InputFile = opts.InputFile
				tasks.Regenerate = maintenance.RegenerateAndPurge(opts, appCache, logger)
			}
			go maintenance.Start(ctx, maintenance.Config{
				WatchInterval: cfg.WatchInterval,
				StatsInterval: 10 * time.Minute,
			}, tasks, logger)

			addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
			srv := &http.Server{
				Addr:         addr,
				Handler:      api.NewRouter(dataDir, appCache, cfg, logger),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting card data API", "addr", addr, "data_dir", dataDir)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}
			logger.Info("Shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			logger.Info("Server stopped")
			return nil
		},
	}
	flags.register(cmd, cfg)
	cmd.Flags().StringVar(&dataDir, "data", cfg.OutputDir, "Directory holding the generated JSON files")
	cmd.Flags().StringVar(&cfg.APIHost, "host", cfg.APIHost, "Listen host")
	cmd.Flags().IntVar(&cfg.APIPort, "port", cfg.APIPort, "Listen port")
	cmd.Flags().DurationVar(&cfg.WatchInterval, "watch", cfg.WatchInterval, "Poll the input sheet and regenerate on change (0 = off)")
	return cmd
}
