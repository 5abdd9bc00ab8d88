package cards

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/albapepper/cardgraph/internal/config"
)

func TestReadCSV_BOMAndColumns(t *testing.T) {
	input := "\ufeffSet,Player,Team,Year,Price\n" +
		"Topps,Jones,California Angels,1998,1.00\n" +
		"Topps,Smith,Boston Red Sox\n"

	records, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Record{Player: "Jones", Team: "California Angels", Year: "1998"}, records[0])
	assert.Equal(t, Record{Player: "Smith", Team: "Boston Red Sox", Year: ""}, records[1])
}

func TestReadCSV_BOMOnPlayerColumn(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("\ufeffPlayer,Team,Year\nJones,Texas Rangers,1990\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Jones", records[0].Player)
}

func TestReadCSV_MissingColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Name,Club,Year\nJones,Rangers,1990\n"))
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestReadCSV_NoYearColumn(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("Player,Team\nJones,Texas Rangers\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	_, ok := records[0].ParseYear()
	assert.False(t, ok)
}

func TestReadCSV_Empty(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.True(t, strings.HasSuffix(pathErr.Path, "nope.csv"))
}

func TestLoad_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	require.NoError(t, os.WriteFile(path, []byte("Player,Team,Year\nJones,Texas Rangers,1990\n"), 0o644))

	records, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Record{{Player: "Jones", Team: "Texas Rangers", Year: "1990"}}, records)
}

func TestLoad_XLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Player", "Team", "Year"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Jones", "California Angels", 1998}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Checklist", "Checklist"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Record{Player: "Jones", Team: "California Angels", Year: "1998"}, records[0])
	assert.Equal(t, Record{Player: "Checklist", Team: "Checklist", Year: ""}, records[1])
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1998", 1998, true},
		{" 1999 ", 1999, true},
		{"", 0, false},
		{"1998.0", 0, false},
		{"n/a", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Record{Year: tt.in}.ParseYear()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_Reject(t *testing.T) {
	f := NewFilter(DefaultTables(), false)
	tests := []struct {
		name   string
		rec    Record
		reason Reason
		reject bool
	}{
		{"player card", Record{Player: "Jones", Team: "Texas Rangers"}, "", false},
		{"blank player", Record{Player: "   ", Team: "Texas Rangers"}, ReasonBlankPlayer, true},
		{"checklist player", Record{Player: "Checklist", Team: ""}, ReasonSkippedPlayer, true},
		{"team leaders", Record{Player: " Boston Red Sox Team Leaders ", Team: "Boston Red Sox"}, ReasonSkippedPlayer, true},
		{"blank team", Record{Player: "Jones", Team: ""}, ReasonBlankTeam, true},
		{"checklist team", Record{Player: "Jones", Team: "CHECKLIST"}, ReasonChecklistTeam, true},
		{"compound team", Record{Player: "Jones", Team: "Detroit Tigers / Milwaukee Brewers"}, ReasonCompoundTeam, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, rejected := f.Reject(tt.rec)
			assert.Equal(t, tt.reject, rejected)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestFilter_KeepCompound(t *testing.T) {
	f := NewFilter(DefaultTables(), true)
	accepted, result := f.Apply([]Record{{Player: "Jones", Team: "Detroit Tigers / Milwaukee Brewers", Year: "1990"}})
	require.Len(t, accepted, 1)
	assert.Equal(t, "Detroit Tigers / Milwaukee Brewers", accepted[0].Team)
	assert.Zero(t, result.TotalSkipped())
}

func TestFilter_Apply(t *testing.T) {
	f := NewFilter(DefaultTables(), false)
	in := []Record{
		{Player: "Jones", Team: "California Angels ", Year: "1998"},
		{Player: " Jones", Team: "Anaheim Angels", Year: "1999"},
		{Player: "Checklist", Team: "Topps", Year: "1999"},
		{Player: "Smith", Team: "", Year: "1999"},
		{Player: "Lee", Team: "Tampa Devil Rays", Year: "x"},
	}

	accepted, result := f.Apply(in)
	require.Len(t, accepted, 3)
	assert.Equal(t, Record{Player: "Jones", Team: "Anaheim Angels", Year: "1998"}, accepted[0])
	assert.Equal(t, Record{Player: "Jones", Team: "Anaheim Angels", Year: "1999"}, accepted[1])
	assert.Equal(t, Record{Player: "Lee", Team: "Tampa Bay Rays", Year: "x"}, accepted[2])

	assert.Equal(t, 3, result.Accepted)
	assert.Equal(t, 2, result.TotalSkipped())
	assert.Equal(t, 1, result.Skipped[ReasonSkippedPlayer])
	assert.Equal(t, 1, result.Skipped[ReasonBlankTeam])
	assert.Equal(t, []string{"California Angels -> Anaheim Angels", "Tampa Devil Rays -> Tampa Bay Rays"}, result.Renames())
	assert.Equal(t, "accepted=3 skipped=2 non_player_card=1 blank_team=1", result.Summary())

	assert.Equal(t, "California Angels ", in[0].Team, "input must not be modified")
}

func TestFilter_AcceptedInvariants(t *testing.T) {
	f := NewFilter(DefaultTables(), false)
	in := []Record{
		{Player: "", Team: "A"}, {Player: "Checklist", Team: "A"}, {Player: "P", Team: " "},
		{Player: "P", Team: "checklist"}, {Player: "P", Team: "A/B"}, {Player: "P", Team: "A"},
		{Player: "Team Leaders", Team: "A"}, {Player: "Q", Team: "Los Angeles Angels"},
	}
	accepted, _ := f.Apply(in)
	tables := DefaultTables()
	for _, r := range accepted {
		assert.NotEmpty(t, strings.TrimSpace(r.Team))
		assert.False(t, strings.EqualFold(r.Team, "checklist"))
		assert.NotEmpty(t, strings.TrimSpace(r.Player))
		assert.False(t, tables.IsSkippedPlayer(r.Player))
	}
	assert.Len(t, accepted, 2)
}

func TestTables_NormalizeIdempotent(t *testing.T) {
	tables := DefaultTables()
	require.NoError(t, tables.Validate())
	for alias := range tables.Aliases {
		once := tables.NormalizeTeam(alias)
		assert.Equal(t, once, tables.NormalizeTeam(once), alias)
	}
	assert.Equal(t, "Boston Red Sox", tables.NormalizeTeam("Boston Red Sox"))
}

func TestTables_MergeAndValidate(t *testing.T) {
	tables := DefaultTables()
	tables.Merge(&config.Overrides{
		Aliases:     map[string]string{"Florida Marlins": "Miami Marlins"},
		SkipPlayers: []string{"Rookie Prospects"},
	})
	require.NoError(t, tables.Validate())
	assert.Equal(t, "Miami Marlins", tables.NormalizeTeam("Florida Marlins"))
	assert.True(t, tables.IsSkippedPlayer("Rookie Prospects"))
	assert.True(t, tables.IsSkippedPlayer("Checklist"))

	tables.Merge(&config.Overrides{Aliases: map[string]string{"Anaheim Angels": "Los Angeles Angels"}})
	assert.ErrorContains(t, tables.Validate(), "alias chains")
}

func TestDefaultTables_IsACopy(t *testing.T) {
	a := DefaultTables()
	a.Aliases["X"] = "Y"
	b := DefaultTables()
	_, ok := b.Aliases["X"]
	assert.False(t, ok)
}
