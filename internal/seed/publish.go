package seed

import (
	"context"
	"log/slog"

	"github.com/albapepper/cardgraph/internal/db"
	"github.com/albapepper/cardgraph/internal/output"
)

// Publish runs the full seed flow: teams -> players -> connections, then
// prunes rows the documents no longer contain. Row failures are collected
// in the result; pruning is skipped when any upsert failed so a partial
// write never deletes good rows.
func Publish(ctx context.Context, conn db.Execer, docs *output.Documents, prune bool, logger *slog.Logger) SeedResult {
	var result SeedResult

	// 1. Teams with their colours
	logger.Info("Seeding card teams...")
	for _, team := range docs.Teams.Teams {
		color, ok := docs.Colors.TeamColors[team]
		if !ok {
			color = docs.Colors.DefaultColor
		}
		if _, err := conn.Exec(ctx, "upsert_team", team, color); err != nil {
			result.AddErrorf("upsert team %q: %v", team, err)
		} else {
			result.TeamsUpserted++
		}
	}
	logger.Info("Card teams done", "count", result.TeamsUpserted)

	// 2. Player summaries
	logger.Info("Seeding card players...")
	for _, p := range docs.Players {
		if _, err := conn.Exec(ctx, "upsert_player", p.Name, p.Teams, p.Years, p.CardCount); err != nil {
			result.AddErrorf("upsert player %q: %v", p.Name, err)
		} else {
			result.PlayersUpserted++
		}
	}
	logger.Info("Card players done", "count", result.PlayersUpserted)

	// 3. Connections
	logger.Info("Seeding connections...")
	for i, e := range docs.Network.Edges {
		if _, err := conn.Exec(ctx, "insert_connection", e.From, e.Team, e.Year); err != nil {
			result.AddErrorf("insert connection %s/%s/%d: %v", e.From, e.Team, e.Year, err)
		} else {
			result.ConnectionsUpserted++
		}
		if (i+1)%500 == 0 {
			logger.Info("Connections progress", "processed", i+1)
		}
	}
	logger.Info("Connections done", "count", result.ConnectionsUpserted)

	if !prune {
		return result
	}
	if len(result.Errors) > 0 {
		logger.Warn("Skipping prune after upsert errors", "errors", len(result.Errors))
		return result
	}
	result.Add(pruneStale(ctx, conn, docs))
	logger.Info("Prune done", "rows", result.RowsPruned)
	return result
}

func pruneStale(ctx context.Context, conn db.Execer, docs *output.Documents) SeedResult {
	var result SeedResult

	names := make([]string, len(docs.Players))
	for i, p := range docs.Players {
		names[i] = p.Name
	}
	players := make([]string, len(docs.Network.Edges))
	teams := make([]string, len(docs.Network.Edges))
	years := make([]int32, len(docs.Network.Edges))
	for i, e := range docs.Network.Edges {
		players[i], teams[i], years[i] = e.From, e.Team, int32(e.Year)
	}

	steps := []struct {
		stmt string
		args []any
	}{
		{"prune_connections", []any{players, teams, years}},
		{"prune_players", []any{names}},
		{"prune_teams", []any{docs.Teams.Teams}},
	}
	for _, s := range steps {
		tag, err := conn.Exec(ctx, s.stmt, s.args...)
		if err != nil {
			result.AddErrorf("%s: %v", s.stmt, err)
			continue
		}
		result.RowsPruned += int(tag.RowsAffected())
	}
	return result
}
