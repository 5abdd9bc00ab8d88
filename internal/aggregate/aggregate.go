// Package aggregate derives the connection, player and team views from the
// accepted card records. Every function is a pure pass over the same slice.
package aggregate

import (
	"cmp"
	"maps"
	"slices"

	"github.com/albapepper/cardgraph/internal/cards"
)

// Edge is one player-team-year connection. From and To are both the player;
// the web graph links players through shared teams.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Team string `json:"team"`
	Year int    `json:"year"`
}

// Network is the connections document.
type Network struct {
	Years []int  `json:"years"`
	Edges []Edge `json:"edges"`
}

// PlayerSummary describes one player across the whole collection.
type PlayerSummary struct {
	Name      string   `json:"name"`
	Teams     []string `json:"teams"`
	Years     []int    `json:"years"`
	CardCount int      `json:"card_count"`
}

// TeamSummary lists the distinct teams.
type TeamSummary struct {
	Teams []string `json:"teams"`
	Count int      `json:"count"`
}

// TeamCount is a team with its number of cards.
type TeamCount struct {
	Team  string
	Cards int
}

// Connections emits one edge per distinct (player, team, year). Records with
// an unparseable year are left out. Edges are ordered by player, team, year.
func Connections(records []cards.Record) Network {
	allYears := make(map[int]struct{})
	playerTeamYears := make(map[string]map[string]map[int]struct{})

	for _, r := range records {
		year, ok := r.ParseYear()
		if !ok {
			continue
		}
		allYears[year] = struct{}{}
		teams, ok := playerTeamYears[r.Player]
		if !ok {
			teams = make(map[string]map[int]struct{})
			playerTeamYears[r.Player] = teams
		}
		years, ok := teams[r.Team]
		if !ok {
			years = make(map[int]struct{})
			teams[r.Team] = years
		}
		years[year] = struct{}{}
	}

	edges := make([]Edge, 0)
	for _, player := range slices.Sorted(maps.Keys(playerTeamYears)) {
		teams := playerTeamYears[player]
		for _, team := range slices.Sorted(maps.Keys(teams)) {
			for _, year := range slices.Sorted(maps.Keys(teams[team])) {
				edges = append(edges, Edge{From: player, To: player, Team: team, Year: year})
			}
		}
	}

	return Network{Years: sortedKeys(allYears), Edges: edges}
}

// Players groups records by player. CardCount includes records whose year
// could not be parsed. Output is ordered by name.
func Players(records []cards.Record) []PlayerSummary {
	type info struct {
		teams map[string]struct{}
		years map[int]struct{}
		count int
	}
	byPlayer := make(map[string]*info)

	for _, r := range records {
		p, ok := byPlayer[r.Player]
		if !ok {
			p = &info{teams: make(map[string]struct{}), years: make(map[int]struct{})}
			byPlayer[r.Player] = p
		}
		p.teams[r.Team] = struct{}{}
		if year, ok := r.ParseYear(); ok {
			p.years[year] = struct{}{}
		}
		p.count++
	}

	players := make([]PlayerSummary, 0, len(byPlayer))
	for _, name := range slices.Sorted(maps.Keys(byPlayer)) {
		p := byPlayer[name]
		players = append(players, PlayerSummary{
			Name:      name,
			Teams:     slices.Sorted(maps.Keys(p.teams)),
			Years:     sortedKeys(p.years),
			CardCount: p.count,
		})
	}
	return players
}

// Teams returns the sorted distinct team names.
func Teams(records []cards.Record) TeamSummary {
	set := make(map[string]struct{})
	for _, r := range records {
		set[r.Team] = struct{}{}
	}
	teams := slices.Sorted(maps.Keys(set))
	if teams == nil {
		teams = []string{}
	}
	return TeamSummary{Teams: teams, Count: len(teams)}
}

// TopTeams ranks teams by card count, most first, ties by name. n <= 0
// returns the full ranking.
func TopTeams(records []cards.Record, n int) []TeamCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Team]++
	}
	ranked := make([]TeamCount, 0, len(counts))
	for team, c := range counts {
		ranked = append(ranked, TeamCount{Team: team, Cards: c})
	}
	slices.SortFunc(ranked, func(a, b TeamCount) int {
		if c := cmp.Compare(b.Cards, a.Cards); c != 0 {
			return c
		}
		return cmp.Compare(a.Team, b.Team)
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func sortedKeys(m map[int]struct{}) []int {
	out := slices.Sorted(maps.Keys(m))
	if out == nil {
		return []int{}
	}
	return out
}
