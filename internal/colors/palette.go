// Package colors assigns a display colour to every team. Known teams use a
// static palette; the palette is repaired first so no two teams share a
// colour, and unknown teams fall back to a neutral default.
package colors

import (
	"strings"

	"github.com/albapepper/cardgraph/internal/config"
)

// DefaultColor is used for teams missing from the palette.
const DefaultColor = "#888888"

// Entry is one team colour.
type Entry struct {
	Team  string
	Color string
}

// Palette is an ordered team -> colour table. Order matters: when several
// teams share a colour the earliest keeps it.
type Palette struct {
	entries []Entry
	index   map[string]int
}

// NewPalette builds a palette from entries. A repeated team overwrites the
// earlier colour in place.
func NewPalette(entries ...Entry) *Palette {
	p := &Palette{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		p.Set(e.Team, e.Color)
	}
	return p
}

// Set assigns a colour, keeping the team's position if already present.
func (p *Palette) Set(team, color string) {
	color = strings.ToUpper(strings.TrimSpace(color))
	if i, ok := p.index[team]; ok {
		p.entries[i].Color = color
		return
	}
	p.index[team] = len(p.entries)
	p.entries = append(p.entries, Entry{Team: team, Color: color})
}

// Get returns the team's colour.
func (p *Palette) Get(team string) (string, bool) {
	i, ok := p.index[team]
	if !ok {
		return "", false
	}
	return p.entries[i].Color, true
}

// Entries returns a copy of the palette in order.
func (p *Palette) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// Merge applies colour overrides on top of the palette.
func (p *Palette) Merge(o *config.Overrides) {
	if o == nil {
		return
	}
	for _, c := range o.Colors {
		p.Set(c.Team, c.Color)
	}
}

// DefaultPalette returns the built-in MLB, historical, minor league and
// Japanese league colours.
func DefaultPalette() *Palette {
	return NewPalette(
		// American League East
		Entry{"Baltimore Orioles", "#FF6600"},
		Entry{"Boston Red Sox", "#BD3039"},
		Entry{"New York Yankees", "#1C3A70"},
		Entry{"Tampa Bay Rays", "#00A3E0"},
		Entry{"Toronto Blue Jays", "#134A8E"},

		// American League Central
		Entry{"Chicago White Sox", "#FFFFFF"},
		Entry{"Cleveland Indians", "#E31937"},
		Entry{"Detroit Tigers", "#FA4616"},
		Entry{"Kansas City Royals", "#004687"},
		Entry{"Minnesota Twins", "#D31145"},

		// American League West
		Entry{"Anaheim Angels", "#BA0021"},
		Entry{"Oakland Athletics", "#00FF00"},
		Entry{"Seattle Mariners", "#00C4B4"},
		Entry{"Texas Rangers", "#003278"},

		// National League East
		Entry{"Atlanta Braves", "#CE1141"},
		Entry{"Florida Marlins", "#00CED1"},
		Entry{"Miami Marlins", "#FF6E1B"},
		Entry{"Montreal Expos", "#4A90E2"},
		Entry{"New York Mets", "#FF8C42"},
		Entry{"Philadelphia Phillies", "#E81828"},
		Entry{"Washington Nationals", "#AB0003"},
		Entry{"Washington Senators", "#C41E3A"},

		// National League Central
		Entry{"Chicago Cubs", "#0E3386"},
		Entry{"Cincinnati Reds", "#FF3333"},
		Entry{"Cincinnati Redlegs", "#C6011F"},
		Entry{"Houston Astros", "#EB6E1F"},
		Entry{"Milwaukee Brewers", "#FFC72C"},
		Entry{"Pittsburgh Pirates", "#FFD700"},
		Entry{"St. Louis Cardinals", "#C41E3A"},

		// National League West
		Entry{"Arizona Diamondbacks", "#A71930"},
		Entry{"Colorado Rockies", "#9370DB"},
		Entry{"Los Angeles Dodgers", "#005A9C"},
		Entry{"San Diego Padres", "#FEC325"},
		Entry{"San Francisco Giants", "#FD5A1E"},

		// Historical
		Entry{"Brooklyn Dodgers", "#4682B4"},
		Entry{"New York Giants", "#FF6347"},
		Entry{"Philadelphia Athletics", "#00C851"},

		// Minor league
		Entry{"Burlington Braves", "#90EE90"},
		Entry{"Charleston Rainbows", "#FF69B4"},
		Entry{"Charleston Wheelers", "#DDA0DD"},
		Entry{"Clinton Giants", "#FFB6C1"},
		Entry{"Hagerstown Suns", "#FFEB3B"},
		Entry{"Huntsville Stars", "#87CEEB"},
		Entry{"Memphis Chicks", "#F0E68C"},
		Entry{"Nashville Sounds", "#98FB98"},
		Entry{"Rancho Cucamonga Quakes", "#DEB887"},
		Entry{"Riverside Red Wave", "#FA8072"},
		Entry{"South Bend White Sox", "#F8F8FF"},
		Entry{"Winston-Salem Warthogs", "#D2691E"},

		// Japanese leagues
		Entry{"Chunichi Dragons", "#DC143C"},
		Entry{"Hiroshima Toyo Carp", "#FF4500"},
		Entry{"Kinetsu Buffaloes", "#4682B4"},
		Entry{"Nippon-Ham Fighters", "#32CD32"},
	)
}
