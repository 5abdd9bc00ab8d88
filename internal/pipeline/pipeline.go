// Package pipeline runs a regeneration: load the card sheet, filter it,
// build every aggregate, repair and assign colours, then write the documents.
package pipeline

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/albapepper/cardgraph/internal/aggregate"
	"github.com/albapepper/cardgraph/internal/cards"
	"github.com/albapepper/cardgraph/internal/colors"
	"github.com/albapepper/cardgraph/internal/output"
)

// spotCheckTeams are reported after each run; both depend on alias rewrites.
var spotCheckTeams = []string{"Tampa Bay Rays", "Anaheim Angels"}

// Options configures one run.
type Options struct {
	InputFile    string
	OutputDir    string
	Tables       *cards.Tables
	Palette      *colors.Palette
	KeepCompound bool
	ColorSeed    int64
	TopTeams     int
}

// Result tracks what a run produced.
type Result struct {
	Filter     cards.FilterResult
	Documents  *output.Documents
	Records    []cards.Record
	TopTeams   []aggregate.TeamCount
	ColorFixes []colors.Reassignment
	Written    []string
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	d := r.Documents
	return fmt.Sprintf(
		"cards=%d players=%d teams=%d years=%d connections=%d color_fixes=%d files=%d",
		r.Filter.Accepted, len(d.Players), d.Teams.Count,
		len(d.Network.Years), len(d.Network.Edges), len(r.ColorFixes), len(r.Written),
	)
}

// Build loads and aggregates the input without writing anything. The
// returned error wraps fs.ErrNotExist when the input is missing.
func Build(opts Options, logger *slog.Logger) (*Result, error) {
	if opts.Tables == nil {
		opts.Tables = cards.DefaultTables()
	}
	if opts.Palette == nil {
		opts.Palette = colors.DefaultPalette()
	}
	if err := opts.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("validate tables: %w", err)
	}

	logger.Info("Loading cards", "file", opts.InputFile)
	raw, err := cards.Load(opts.InputFile)
	if err != nil {
		return nil, err
	}

	filter := cards.NewFilter(opts.Tables, opts.KeepCompound)
	records, fr := filter.Apply(raw)
	logger.Info("Cards filtered", "summary", fr.Summary(), "keep_compound", opts.KeepCompound)
	for _, rename := range fr.Renames() {
		logger.Info("Team normalized", "rename", rename, "cards", fr.Renamed[rename])
	}

	result := Aggregate(records, opts, logger)
	result.Filter = fr
	return result, nil
}

// Aggregate builds every document from accepted records.
func Aggregate(records []cards.Record, opts Options, logger *slog.Logger) *Result {
	if opts.Palette == nil {
		opts.Palette = colors.DefaultPalette()
	}

	network := aggregate.Connections(records)
	logConnections(logger, network)

	players := aggregate.Players(records)
	logger.Info("Players aggregated", "count", len(players))

	teams := aggregate.Teams(records)
	top := aggregate.TopTeams(records, opts.TopTeams)
	logger.Info("Teams aggregated", "count", teams.Count)
	for i, tc := range top {
		logger.Info("Top team", "rank", i+1, "team", tc.Team, "cards", tc.Cards)
	}

	assigner := colors.NewAssigner(opts.ColorSeed)
	palette := colors.NewPalette(opts.Palette.Entries()...)
	if dups := colors.Duplicates(palette); len(dups) > 0 {
		logger.Warn("Duplicate palette colours", "count", len(dups))
	}
	fixes := assigner.FixDuplicates(palette)
	for _, f := range fixes {
		logger.Info("Colour reassigned", "team", f.Team, "old", f.Old, "new", f.New)
	}
	assignment := assigner.Assign(teams.Teams, palette)
	logger.Info("Colours assigned", "teams", len(assignment.TeamColors), "unique_colors", assignment.UniqueColors())

	logSpotChecks(logger, players)

	return &Result{
		Filter:     cards.FilterResult{Accepted: len(records)},
		Records:    records,
		TopTeams:   top,
		ColorFixes: fixes,
		Documents: &output.Documents{
			Network: network,
			Players: players,
			Teams:   teams,
			Colors:  assignment,
		},
	}
}

// Regenerate builds every document and writes them into opts.OutputDir.
// Nothing is written unless the build succeeds.
func Regenerate(opts Options, logger *slog.Logger) (*Result, error) {
	result, err := Build(opts, logger)
	if err != nil {
		return nil, err
	}
	written, err := output.Write(opts.OutputDir, result.Documents)
	result.Written = written
	for _, path := range written {
		logger.Info("Wrote file", "path", path)
	}
	if err != nil {
		return result, err
	}
	logger.Info("Regeneration complete", "summary", result.Summary())
	return result, nil
}

func logConnections(logger *slog.Logger, network aggregate.Network) {
	args := []any{"connections", len(network.Edges), "years", len(network.Years)}
	if n := len(network.Years); n > 0 {
		args = append(args, "first_year", network.Years[0], "last_year", network.Years[n-1])
	}
	logger.Info("Connections generated", args...)

	if len(network.Edges) == 0 {
		return
	}
	example := network.Edges[0].From
	byTeam := make(map[string][]int)
	for _, e := range network.Edges {
		if e.From == example {
			byTeam[e.Team] = append(byTeam[e.Team], e.Year)
		}
	}
	for _, team := range slices.Sorted(maps.Keys(byTeam)) {
		logger.Debug("Example player", "player", example, "team", team, "years", byTeam[team])
	}
}

func logSpotChecks(logger *slog.Logger, players []aggregate.PlayerSummary) {
	for _, team := range spotCheckTeams {
		var names []string
		for _, p := range players {
			if slices.Contains(p.Teams, team) {
				names = append(names, p.Name)
			}
		}
		if len(names) == 0 {
			continue
		}
		logger.Info("Spot check", "team", team, "players", len(names), "sample", names[:min(5, len(names))])
	}
}
