package cards

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	columnPlayer = "Player"
	columnTeam   = "Team"
	columnYear   = "Year"
)

// utf8BOM is stripped from the first header cell; spreadsheet exports add it.
const utf8BOM = "\ufeff"

// ErrMissingColumns is returned when the header lacks Player or Team.
var ErrMissingColumns = errors.New("required columns missing (need Player, Team)")

// ErrInputNotFound marks a card sheet that does not exist. It is the only
// missing-file condition reported to users as a plain message.
var ErrInputNotFound = errors.New("input file not found")

// Load reads a card sheet, choosing the reader by file extension: .xlsx is
// read with excelize, anything else as comma-separated text. A missing file
// yields an error matching both ErrInputNotFound and fs.ErrNotExist.
func Load(path string) ([]Record, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrInputNotFound, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// ReadCSV parses a header row followed by card rows. Extra columns are
// ignored; short rows read as blank cells.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	hdr, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := newColumnIndex(hdr)
	if err != nil {
		return nil, err
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		records = append(records, cols.record(row))
	}
	return records, nil
}

// ReadXLSX reads the first worksheet of a workbook with the same header
// rules as ReadCSV.
func ReadXLSX(path string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols, err := newColumnIndex(rows[0])
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, cols.record(row))
	}
	return records, nil
}

// columnIndex maps the three card columns to header positions. year is -1
// when the sheet has no Year column.
type columnIndex struct {
	player, team, year int
}

func newColumnIndex(hdr []string) (columnIndex, error) {
	idx := func(name string) int {
		for i, h := range hdr {
			if i == 0 {
				h = strings.TrimPrefix(h, utf8BOM)
			}
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}
	c := columnIndex{player: idx(columnPlayer), team: idx(columnTeam), year: idx(columnYear)}
	if c.player < 0 || c.team < 0 {
		return c, ErrMissingColumns
	}
	return c, nil
}

func (c columnIndex) record(row []string) Record {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}
	return Record{Player: cell(c.player), Team: cell(c.team), Year: cell(c.year)}
}
