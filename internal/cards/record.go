// Package cards loads card sheets and reduces them to the player cards that
// feed every aggregate: non-player and malformed rows are rejected and team
// names are rewritten to their canonical franchise name.
package cards

import (
	"strconv"
	"strings"
)

// Record is one card row. Year is kept as read; use ParseYear to extract it.
type Record struct {
	Player string `json:"player"`
	Team   string `json:"team"`
	Year   string `json:"year"`
}

// ParseYear returns the card year, and ok=false when the cell is blank or
// not an integer. Such records still count as cards but carry no year.
func (r Record) ParseYear() (int, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(r.Year))
	if err != nil {
		return 0, false
	}
	return y, true
}
