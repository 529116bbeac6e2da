// Package simio reads the consumption input table and writes the
// per-building output tables, dispatching to a csv/tsv or xlsx handler by
// file extension.
package simio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"evcharge/internal/simerr"
)

// Row is one input row keyed by header: "Tiempo" plus one column per
// building, holding the raw consumption-percent text.
type Row map[string]string

// Table is a parsed input table: the header order (building names, in the
// order they appeared after "Tiempo") and the rows in file order.
type Table struct {
	Buildings []string
	Rows      []Row
}

// ReadTable reads path, detecting csv/tsv/xlsx from its extension.
func ReadTable(path string) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return readDelimited(path, ',')
	case ".tsv":
		return readDelimited(path, '\t')
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, simerr.Config("UNKNOWN_OUTPUT_FORMAT", fmt.Sprintf("unsupported input extension %q", ext), nil)
	}
}

func readDelimited(path string, delim rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, simerr.IO("INPUT_READ_FAILED", fmt.Sprintf("opening %q", path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delim
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, simerr.IO("INPUT_READ_FAILED", fmt.Sprintf("reading %q", path), err)
	}
	return rowsToTable(records)
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, simerr.IO("INPUT_READ_FAILED", fmt.Sprintf("opening %q", path), err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, simerr.IO("INPUT_READ_FAILED", fmt.Sprintf("reading sheet of %q", path), err)
	}
	return rowsToTable(records)
}

func rowsToTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, simerr.Input("MISSING_HEADER", "input table has no header row", nil)
	}
	header := records[0]
	if len(header) == 0 || strings.TrimSpace(header[0]) != "Tiempo" {
		return nil, simerr.Input("MISSING_HEADER", "input table's first column must be \"Tiempo\"", nil)
	}
	buildings := make([]string, 0, len(header)-1)
	for _, h := range header[1:] {
		buildings = append(buildings, strings.TrimSpace(h))
	}
	if len(buildings) == 0 {
		return nil, simerr.Config("NO_BUILDINGS_CONFIGURED", "input header names no buildings after \"Tiempo\"", nil)
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) < len(header) {
			return nil, simerr.Input("BAD_INPUT_ROW", fmt.Sprintf("row %d has %d columns, expected %d", i+2, len(rec), len(header)), nil)
		}
		row := make(Row, len(header))
		row["Tiempo"] = strings.TrimSpace(rec[0])
		for j, b := range buildings {
			row[b] = strings.TrimSpace(rec[j+1])
		}
		rows = append(rows, row)
	}

	return &Table{Buildings: buildings, Rows: rows}, nil
}
