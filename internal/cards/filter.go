package cards

import (
	"fmt"
	"sort"
	"strings"
)

// Reason names the rule that rejected a record.
type Reason string

const (
	ReasonBlankPlayer   Reason = "blank_player"
	ReasonSkippedPlayer Reason = "non_player_card"
	ReasonBlankTeam     Reason = "blank_team"
	ReasonChecklistTeam Reason = "checklist_team"
	ReasonCompoundTeam  Reason = "compound_team"
)

// reasonOrder is the order rules are checked in and reported in.
var reasonOrder = []Reason{
	ReasonBlankPlayer,
	ReasonSkippedPlayer,
	ReasonBlankTeam,
	ReasonChecklistTeam,
	ReasonCompoundTeam,
}

// Filter rejects non-player cards and rewrites team names.
type Filter struct {
	tables *Tables
	// KeepCompound retains "Team A / Team B" rows as-is instead of
	// dropping them.
	KeepCompound bool
}

// NewFilter creates a Filter over the given tables.
func NewFilter(tables *Tables, keepCompound bool) *Filter {
	return &Filter{tables: tables, KeepCompound: keepCompound}
}

// Reject returns the first rule the record breaks, if any.
func (f *Filter) Reject(r Record) (Reason, bool) {
	player := strings.TrimSpace(r.Player)
	team := strings.TrimSpace(r.Team)

	switch {
	case player == "":
		return ReasonBlankPlayer, true
	case f.tables.IsSkippedPlayer(player):
		return ReasonSkippedPlayer, true
	case team == "":
		return ReasonBlankTeam, true
	case strings.EqualFold(team, "checklist"):
		return ReasonChecklistTeam, true
	case !f.KeepCompound && strings.Contains(team, "/"):
		return ReasonCompoundTeam, true
	}
	return "", false
}

// Apply returns the accepted records with trimmed player and canonical team
// names. The input slice is not modified.
func (f *Filter) Apply(records []Record) ([]Record, FilterResult) {
	result := FilterResult{
		Skipped: make(map[Reason]int),
		Renamed: make(map[string]int),
	}
	accepted := make([]Record, 0, len(records))
	for _, r := range records {
		if reason, rejected := f.Reject(r); rejected {
			result.Skipped[reason]++
			continue
		}
		team := strings.TrimSpace(r.Team)
		canonical := f.tables.NormalizeTeam(team)
		if canonical != team {
			result.Renamed[team+" -> "+canonical]++
		}
		accepted = append(accepted, Record{
			Player: strings.TrimSpace(r.Player),
			Team:   canonical,
			Year:   r.Year,
		})
	}
	result.Accepted = len(accepted)
	return accepted, result
}

// FilterResult tracks what the filter kept, dropped and renamed.
type FilterResult struct {
	Accepted int
	Skipped  map[Reason]int
	// Renamed counts alias rewrites keyed by "from -> to".
	Renamed map[string]int
}

// TotalSkipped returns the number of rejected records.
func (r FilterResult) TotalSkipped() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

// Renames returns the alias rewrites that fired, sorted.
func (r FilterResult) Renames() []string {
	out := make([]string, 0, len(r.Renamed))
	for k := range r.Renamed {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Summary returns a human-readable summary of the filter pass.
func (r FilterResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "accepted=%d skipped=%d", r.Accepted, r.TotalSkipped())
	for _, reason := range reasonOrder {
		if n := r.Skipped[reason]; n > 0 {
			fmt.Fprintf(&b, " %s=%d", reason, n)
		}
	}
	return b.String()
}
