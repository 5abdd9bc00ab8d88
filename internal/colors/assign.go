package colors

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// maxGenerateAttempts bounds the search for an unused bright colour.
const maxGenerateAttempts = 100

// Reassignment records a palette repair.
type Reassignment struct {
	Team string
	Old  string
	New  string
}

// Assignment is the colours document.
type Assignment struct {
	TeamColors   map[string]string `json:"teamColors"`
	DefaultColor string            `json:"defaultColor"`
}

// UniqueColors returns the number of distinct colours in use.
func (a Assignment) UniqueColors() int {
	seen := make(map[string]struct{}, len(a.TeamColors))
	for _, c := range a.TeamColors {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// Assigner repairs palettes and assigns team colours. The random source is
// injected so runs can be reproduced.
type Assigner struct {
	rng          *rand.Rand
	defaultColor string
}

// NewAssigner creates an Assigner. seed 0 picks a random seed.
func NewAssigner(seed int64) *Assigner {
	s := uint64(seed)
	if seed == 0 {
		s = rand.Uint64()
	}
	return &Assigner{
		rng:          rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15)),
		defaultColor: DefaultColor,
	}
}

// Duplicates groups palette teams by shared colour, in palette order.
// Only colours used by more than one team are returned.
func Duplicates(p *Palette) map[string][]string {
	byColor := make(map[string][]string)
	for _, e := range p.entries {
		byColor[e.Color] = append(byColor[e.Color], e.Team)
	}
	for c, teams := range byColor {
		if len(teams) < 2 {
			delete(byColor, c)
		}
	}
	return byColor
}

// FixDuplicates gives every team that shares a colour with an earlier team a
// freshly generated colour. The palette is modified in place.
func (a *Assigner) FixDuplicates(p *Palette) []Reassignment {
	used := map[string]struct{}{a.defaultColor: {}}
	for _, e := range p.entries {
		used[e.Color] = struct{}{}
	}

	owner := make(map[string]string, len(p.entries))
	var fixes []Reassignment
	for i, e := range p.entries {
		if _, taken := owner[e.Color]; !taken {
			owner[e.Color] = e.Team
			continue
		}
		fresh := a.Generate(used)
		used[fresh] = struct{}{}
		owner[fresh] = e.Team
		p.entries[i].Color = fresh
		fixes = append(fixes, Reassignment{Team: e.Team, Old: e.Color, New: fresh})
	}
	return fixes
}

// Assign maps every team to its palette colour or the default.
func (a *Assigner) Assign(teams []string, p *Palette) Assignment {
	out := Assignment{
		TeamColors:   make(map[string]string, len(teams)),
		DefaultColor: a.defaultColor,
	}
	for _, team := range teams {
		if c, ok := p.Get(team); ok {
			out.TeamColors[team] = c
		} else {
			out.TeamColors[team] = a.defaultColor
		}
	}
	return out
}

// Generate returns a bright colour not in used. Hue is uniform, saturation
// and value are drawn from the upper range. After maxGenerateAttempts
// collisions it gives up on uniqueness and returns a random light colour.
func (a *Assigner) Generate(used map[string]struct{}) string {
	for range maxGenerateAttempts {
		hue := float64(a.rng.IntN(360))
		sat := float64(70+a.rng.IntN(31)) / 100
		val := float64(60+a.rng.IntN(41)) / 100

		c := strings.ToUpper(colorful.Hsv(hue, sat, val).Hex())
		if _, taken := used[c]; !taken {
			return c
		}
	}
	return fmt.Sprintf("#%02X%02X%02X", 128+a.rng.IntN(128), 128+a.rng.IntN(128), 128+a.rng.IntN(128))
}
