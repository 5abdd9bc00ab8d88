package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/cardgraph/internal/cards"
)

func filtered(t *testing.T, in []cards.Record) []cards.Record {
	t.Helper()
	out, _ := cards.NewFilter(cards.DefaultTables(), false).Apply(in)
	return out
}

func TestAngelsExample(t *testing.T) {
	records := filtered(t, []cards.Record{
		{Player: "Jones", Team: "California Angels", Year: "1998"},
		{Player: "Jones", Team: "Anaheim Angels", Year: "1999"},
	})

	net := Connections(records)
	assert.Equal(t, []int{1998, 1999}, net.Years)
	assert.Equal(t, []Edge{
		{From: "Jones", To: "Jones", Team: "Anaheim Angels", Year: 1998},
		{From: "Jones", To: "Jones", Team: "Anaheim Angels", Year: 1999},
	}, net.Edges)

	players := Players(records)
	require.Len(t, players, 1)
	assert.Equal(t, PlayerSummary{
		Name:      "Jones",
		Teams:     []string{"Anaheim Angels"},
		Years:     []int{1998, 1999},
		CardCount: 2,
	}, players[0])
}

func TestExcludedRowsContributeNothing(t *testing.T) {
	records := filtered(t, []cards.Record{
		{Player: "Checklist", Team: "Topps", Year: "1990"},
		{Player: "Smith", Team: "", Year: "1991"},
	})
	assert.Empty(t, records)

	net := Connections(records)
	assert.Empty(t, net.Years)
	assert.NotNil(t, net.Years)
	assert.Empty(t, net.Edges)
	assert.NotNil(t, net.Edges)
	assert.Empty(t, Players(records))
	assert.Equal(t, TeamSummary{Teams: []string{}, Count: 0}, Teams(records))
}

func TestConnections_DedupAndUnparseableYears(t *testing.T) {
	records := []cards.Record{
		{Player: "Lee", Team: "Texas Rangers", Year: "1990"},
		{Player: "Lee", Team: "Texas Rangers", Year: "1990"},
		{Player: "Lee", Team: "Texas Rangers", Year: "1988"},
		{Player: "Lee", Team: "Texas Rangers", Year: "unknown"},
		{Player: "Ace", Team: "Boston Red Sox", Year: "1975"},
		{Player: "Lee", Team: "Boston Red Sox", Year: ""},
	}
	net := Connections(records)
	assert.Equal(t, []int{1975, 1988, 1990}, net.Years)
	assert.Equal(t, []Edge{
		{From: "Ace", To: "Ace", Team: "Boston Red Sox", Year: 1975},
		{From: "Lee", To: "Lee", Team: "Texas Rangers", Year: 1988},
		{From: "Lee", To: "Lee", Team: "Texas Rangers", Year: 1990},
	}, net.Edges)
}

func TestConnections_YearsMatchEdges(t *testing.T) {
	records := []cards.Record{
		{Player: "A", Team: "T1", Year: "2001"},
		{Player: "B", Team: "T2", Year: "1999"},
		{Player: "B", Team: "T1", Year: "2001"},
		{Player: "C", Team: "T3", Year: "x"},
	}
	net := Connections(records)
	seen := map[int]bool{}
	for _, e := range net.Edges {
		seen[e.Year] = true
		assert.Equal(t, e.From, e.To)
	}
	for _, y := range net.Years {
		assert.True(t, seen[y], "year %d has no edge", y)
	}
	assert.Len(t, seen, len(net.Years))
}

func TestPlayers_CardCountIncludesYearless(t *testing.T) {
	records := []cards.Record{
		{Player: "Lee", Team: "Texas Rangers", Year: "1990"},
		{Player: "Lee", Team: "Texas Rangers", Year: "1990"},
		{Player: "Lee", Team: "Boston Red Sox", Year: "bad"},
		{Player: "Ace", Team: "Boston Red Sox", Year: "1975"},
	}
	players := Players(records)
	require.Len(t, players, 2)
	assert.Equal(t, "Ace", players[0].Name)
	assert.Equal(t, PlayerSummary{
		Name:      "Lee",
		Teams:     []string{"Boston Red Sox", "Texas Rangers"},
		Years:     []int{1990},
		CardCount: 3,
	}, players[1])
}

func TestPlayers_NoParseableYears(t *testing.T) {
	players := Players([]cards.Record{{Player: "Lee", Team: "Texas Rangers"}})
	require.Len(t, players, 1)
	assert.NotNil(t, players[0].Years)
	assert.Empty(t, players[0].Years)
	assert.Equal(t, 1, players[0].CardCount)
}

func TestTeamsAndTopTeams(t *testing.T) {
	records := []cards.Record{
		{Player: "A", Team: "Texas Rangers"},
		{Player: "B", Team: "Boston Red Sox"},
		{Player: "C", Team: "Texas Rangers"},
		{Player: "D", Team: "Atlanta Braves"},
	}
	assert.Equal(t, TeamSummary{
		Teams: []string{"Atlanta Braves", "Boston Red Sox", "Texas Rangers"},
		Count: 3,
	}, Teams(records))

	assert.Equal(t, []TeamCount{
		{Team: "Texas Rangers", Cards: 2},
		{Team: "Atlanta Braves", Cards: 1},
	}, TopTeams(records, 2))
	assert.Len(t, TopTeams(records, 0), 3)
}
