// Package sheet derives barcode records from spreadsheet rows.
//
// Only the first worksheet is read. Rows are taken as raw cell arrays with no
// header detection; every row with at least MinCells cells becomes one
// Record, every shorter row is dropped without error.
package sheet

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MinCells is the number of cells a row needs to produce a Record.
const MinCells = 5

// descriptionCell is the index of the description column.
const descriptionCell = 4

// codeWidth is the minimum width of the zero-padded middle segment of the
// primary code.
const codeWidth = 3

// Record is one barcode pair plus its description, derived from one row.
type Record struct {
	PrimaryCode   string `json:"primaryCode"`
	SecondaryCode string `json:"secondaryCode"`
	Description   string `json:"description"`
}

// FromRows maps raw rows to records in row order.
func FromRows(rows [][]string) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		if rec, ok := RowToRecord(row); ok {
			records = append(records, rec)
		}
	}
	return records
}

// RowToRecord derives a Record from a single row.
// Returns false when the row has fewer than MinCells cells.
func RowToRecord(row []string) (Record, bool) {
	if len(row) < MinCells {
		return Record{}, false
	}

	return Record{
		PrimaryCode:   cleanCell(row[0]) + PadCode(cleanCell(row[1])) + "-" + cleanCell(row[2]),
		SecondaryCode: cleanCell(row[3]),
		Description:   cleanCell(row[descriptionCell]),
	}, true
}

// PadCode left-pads s with zeros to three characters.
// Non-numeric values are padded as literal strings; longer values are
// returned unchanged.
func PadCode(s string) string {
	n := len([]rune(s))
	if n >= codeWidth {
		return s
	}
	return strings.Repeat("0", codeWidth-n) + s
}

// cleanCell normalizes a cell to NFC so visually identical codes compare equal.
func cleanCell(s string) string {
	return norm.NFC.String(s)
}
