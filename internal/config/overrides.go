package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ColorEntry is one team colour in the overrides file. A list keeps the
// file order, which decides who keeps a contested colour.
type ColorEntry struct {
	Team  string `yaml:"team"`
	Color string `yaml:"color"`
}

// Overrides extends the built-in lookup tables.
//
//	aliases:
//	  Florida Marlins: Miami Marlins
//	skip_players:
//	  - Rookie Prospects
//	colors:
//	  - team: Miami Marlins
//	    color: "#00A3E0"
type Overrides struct {
	Aliases     map[string]string `yaml:"aliases"`
	SkipPlayers []string          `yaml:"skip_players"`
	Colors      []ColorEntry      `yaml:"colors"`
}

// LoadOverrides parses a YAML overrides file. An empty path yields empty
// overrides.
func LoadOverrides(path string) (*Overrides, error) {
	if path == "" {
		return &Overrides{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables file: %w", err)
	}
	var o Overrides
	if err := yaml.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("parse tables file %s: %w", path, err)
	}
	for i, c := range o.Colors {
		if c.Team == "" || c.Color == "" {
			return nil, fmt.Errorf("tables file %s: colors[%d] needs both team and color", path, i)
		}
	}
	return &o, nil
}
