package sheet

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Read parses the first worksheet of the named spreadsheet and derives its
// records. The file name selects the reader: ".xls" uses the BIFF reader,
// every OOXML extension uses excelize.
func Read(name string, r io.Reader) ([]Record, error) {
	rows, err := ReadRows(name, r)
	if err != nil {
		return nil, err
	}
	return FromRows(rows), nil
}

// ReadRows returns the raw cell rows of the first worksheet.
// Trailing empty cells are trimmed from every row.
func ReadRows(name string, r io.Reader) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xls":
		return readXLS(name, r)
	case ".xlsx", ".xlsm", ".xltx", ".xltm", "":
		return readXLSX(name, r)
	default:
		return nil, newParseError(name, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext))
	}
}

func readXLSX(name string, r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, newParseError(name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, newParseError(name, ErrNoSheets)
	}

	// Raw values keep numbers unformatted, so "7" pads to "007" regardless
	// of the cell's number format.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, newParseError(name, err)
	}

	for i := range rows {
		if rows[i], err = typedCells(f, sheets[0], i+1, rows[i]); err != nil {
			return nil, newParseError(name, err)
		}
	}
	return rows, nil
}

// typedCells reconciles the record columns of one row with their cell types.
// GetRows trims trailing cells holding an empty string, but such a cell still
// counts towards MinCells, so the row is padded back out to it. Booleans read
// as "true" or "false", and a description that is numeric zero or false
// reads as empty.
func typedCells(f *excelize.File, sheet string, rowNum int, row []string) ([]string, error) {
	for col := 0; col < MinCells; col++ {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return nil, err
		}
		typ, err := f.GetCellType(sheet, cell)
		if err != nil {
			return nil, err
		}

		if col >= len(row) {
			// Numeric cells carry no type, so an unset type past the
			// end of the row means the cell is absent.
			if typ == excelize.CellTypeUnset {
				continue
			}
			row = append(row, make([]string, col+1-len(row))...)
			continue
		}

		if typ == excelize.CellTypeBool {
			row[col] = strconv.FormatBool(row[col] == "1")
		}
		if col == descriptionCell && isFalsy(typ, row[col]) {
			row[col] = ""
		}
	}
	return row, nil
}

// isFalsy reports whether a typed cell value is numeric zero or false.
func isFalsy(typ excelize.CellType, v string) bool {
	switch typ {
	case excelize.CellTypeBool:
		return v == "false"
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		n, err := strconv.ParseFloat(v, 64)
		return err == nil && n == 0
	}
	return false
}

func readXLS(name string, r io.Reader) (rows [][]string, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newParseError(name, err)
	}

	// The BIFF reader panics on some truncated files.
	defer func() {
		if p := recover(); p != nil {
			rows = nil
			err = newParseError(name, fmt.Errorf("corrupt xls: %v", p))
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, newParseError(name, err)
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, newParseError(name, ErrNoSheets)
	}

	rows = make([][]string, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := xlsRow(ws, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		// Rows written without a ROW record report no last column.
		last := max(row.LastCol(), MinCells)
		cells := make([]string, 0, last)
		for c := 0; c < last; c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, trimTrailing(cells))
	}
	return rows, nil
}

// xlsRow returns row i, or nil when the sheet has no such row. The BIFF
// reader dereferences missing rows.
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

// trimTrailing drops empty cells after the last non-empty one.
func trimTrailing(cells []string) []string {
	end := len(cells)
	for end > 0 && cells[end-1] == "" {
		end--
	}
	return cells[:end]
}
