package cards

import (
	"fmt"
	"maps"
	"sort"

	"github.com/albapepper/cardgraph/internal/config"
)

// --------------------------------------------------------------------------
// Built-in tables
// --------------------------------------------------------------------------

// defaultAliases maps historical franchise names to the current one.
var defaultAliases = map[string]string{
	// Angels franchise
	"California Angels":             "Anaheim Angels",
	"Los Angeles Angels":            "Anaheim Angels",
	"Los Angeles Angels of Anaheim": "Anaheim Angels",

	// Rays franchise
	"Tampa Bay Devil Rays": "Tampa Bay Rays",
	"Tampa Devil Rays":     "Tampa Bay Rays", // typo in the sheet
}

// teamLeaderTeams have a "<team> Team Leaders" card in the collection.
var teamLeaderTeams = []string{
	"Atlanta Braves",
	"Baltimore Orioles",
	"Boston Red Sox",
	"California Angels",
	"Chicago Cubs",
	"Chicago White Sox",
	"Cincinnati Reds",
	"Cleveland Indians",
	"Detroit Tigers",
	"Houston Astros",
	"Kansas City Royals",
	"Los Angeles Dodgers",
	"Milwaukee Brewers",
	"Minnesota Twins",
	"Montreal Expos",
	"New York Mets",
	"New York Yankees",
	"Oakland Athletics",
	"Philadelphia Phillies",
	"Pittsburgh Pirates",
	"San Diego Padres",
	"San Francisco Giants",
	"Seattle Mariners",
	"St. Louis Cardinals",
	"Texas Rangers",
	"Toronto Blue Jays",
}

// Tables holds the alias table and the non-player denylist.
type Tables struct {
	Aliases     map[string]string
	SkipPlayers map[string]struct{}
}

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() *Tables {
	t := &Tables{
		Aliases:     maps.Clone(defaultAliases),
		SkipPlayers: map[string]struct{}{"Checklist": {}, "Team Leaders": {}},
	}
	for _, team := range teamLeaderTeams {
		t.SkipPlayers[team+" Team Leaders"] = struct{}{}
	}
	return t
}

// Merge layers the overrides on top of the tables. Override aliases replace
// built-in entries with the same key.
func (t *Tables) Merge(o *config.Overrides) {
	if o == nil {
		return
	}
	for from, to := range o.Aliases {
		t.Aliases[from] = to
	}
	for _, p := range o.SkipPlayers {
		t.SkipPlayers[p] = struct{}{}
	}
}

// Validate rejects alias chains: every alias target must be canonical.
func (t *Tables) Validate() error {
	var chained []string
	for from, to := range t.Aliases {
		if next, ok := t.Aliases[to]; ok {
			chained = append(chained, fmt.Sprintf("%q -> %q -> %q", from, to, next))
		}
	}
	if len(chained) > 0 {
		sort.Strings(chained)
		return fmt.Errorf("alias chains not allowed: %v", chained)
	}
	return nil
}

// NormalizeTeam maps a team name to its canonical name. Unknown names pass
// through unchanged.
func (t *Tables) NormalizeTeam(team string) string {
	if canonical, ok := t.Aliases[team]; ok {
		return canonical
	}
	return team
}

// IsSkippedPlayer reports whether the name marks a non-player card.
func (t *Tables) IsSkippedPlayer(player string) bool {
	_, ok := t.SkipPlayers[player]
	return ok
}
