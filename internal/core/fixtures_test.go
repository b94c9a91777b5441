package core

import (
	"bytes"
	"testing"

	"github.com/JonMunkholm/barcodesheet/internal/symbol"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbook encodes rows into the first sheet of a new xlsx file.
func workbook(t *testing.T, rows ...[]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

// twoRecords is the two-row sheet used across the workflow tests.
func twoRecords(t *testing.T) *bytes.Reader {
	return workbook(t,
		[]interface{}{"A", 7, "X", "S100", "Widget"},
		[]interface{}{"B", 12, "Y", "S200", "Gadget"},
	)
}

func newTestController() *Controller {
	return NewController("test-session", symbol.DefaultOptions())
}
