// Package seed publishes generated card aggregates to Postgres.
package seed

import "fmt"

// SeedResult tracks counts and errors from a seeding operation.
type SeedResult struct {
	TeamsUpserted       int
	PlayersUpserted     int
	ConnectionsUpserted int
	RowsPruned          int
	Errors              []string
}

// Add merges another SeedResult into this one.
func (r *SeedResult) Add(other SeedResult) {
	r.TeamsUpserted += other.TeamsUpserted
	r.PlayersUpserted += other.PlayersUpserted
	r.ConnectionsUpserted += other.ConnectionsUpserted
	r.RowsPruned += other.RowsPruned
	r.Errors = append(r.Errors, other.Errors...)
}

// AddErrorf records a formatted error message.
func (r *SeedResult) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the seed operation.
func (r *SeedResult) Summary() string {
	return fmt.Sprintf(
		"teams=%d players=%d connections=%d pruned=%d errors=%d",
		r.TeamsUpserted, r.PlayersUpserted,
		r.ConnectionsUpserted, r.RowsPruned,
		len(r.Errors),
	)
}
