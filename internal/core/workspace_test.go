package core

import (
	"testing"

	"github.com/JonMunkholm/barcodesheet/internal/sheet"
	"github.com/JonMunkholm/barcodesheet/internal/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkspace_HandleTable(t *testing.T) {
	records := []sheet.Record{
		{PrimaryCode: "A007-X", SecondaryCode: "S100", Description: "Widget"},
		{PrimaryCode: "B012-Y", SecondaryCode: "S_200", Description: "Gadget"},
		{PrimaryCode: "C003-Z", SecondaryCode: "", Description: ""},
	}

	ws := NewWorkspace(3, "serials.xlsx", records, symbol.DefaultOptions())

	require.Len(t, ws.Handles, 2*len(records))
	assert.Equal(t, uint64(3), ws.Generation)
	assert.Equal(t, "serials.xlsx", ws.Source)
	assert.Equal(t, 3, ws.Len())

	for i, rec := range records {
		primary, _ := ws.Pair(i)
		require.NotNil(t, primary, "record %d primary", i)
		assert.Equal(t, rec.PrimaryCode, primary.Value)
	}

	_, secondary := ws.Pair(0)
	require.NotNil(t, secondary)
	assert.Equal(t, "S100", secondary.Value)

	// "_" is outside the CODE39 alphabet and the empty code has nothing to draw.
	_, secondary = ws.Pair(1)
	assert.Nil(t, secondary)
	assert.Equal(t, 2, ws.MissingHandles())
}

func TestWorkspace_Handle(t *testing.T) {
	ws := NewWorkspace(1, "s.xlsx", []sheet.Record{
		{PrimaryCode: "A001-X", SecondaryCode: "bad_code"},
	}, symbol.DefaultOptions())

	h, err := ws.Handle(0)
	require.NoError(t, err)
	assert.Equal(t, "A001-X", h.Value)

	for _, idx := range []int{-1, 1, 2, 99} {
		_, err := ws.Handle(idx)
		assert.ErrorIs(t, err, ErrSymbolNotFound, "index %d", idx)
	}
}

func TestEmptyWorkspace(t *testing.T) {
	ws := emptyWorkspace()
	assert.Zero(t, ws.Len())
	assert.Empty(t, ws.Handles)
	assert.Zero(t, ws.MissingHandles())
}
