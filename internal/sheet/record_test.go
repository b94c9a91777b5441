package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRows_Scenario(t *testing.T) {
	rows := [][]string{
		{"A", "7", "X", "S100", "Widget"},
		{"B", "12", "Y", "S200", ""},
	}

	got := FromRows(rows)

	want := []Record{
		{PrimaryCode: "A007-X", SecondaryCode: "S100", Description: "Widget"},
		{PrimaryCode: "B012-Y", SecondaryCode: "S200", Description: ""},
	}
	assert.Equal(t, want, got)
}

func TestFromRows_DropsShortRows(t *testing.T) {
	rows := [][]string{
		{"A", "1", "X"},
		{},
		nil,
		{"A", "1", "X", "S1"},
		{"C", "3", "Z", "S3", "kept"},
	}

	got := FromRows(rows)

	require.Len(t, got, 1)
	assert.Equal(t, "C003-Z", got[0].PrimaryCode)
	assert.Equal(t, "kept", got[0].Description)
}

func TestFromRows_ExtraCellsIgnored(t *testing.T) {
	got := FromRows([][]string{{"A", "1", "X", "S1", "desc", "extra", "more"}})

	require.Len(t, got, 1)
	assert.Equal(t, Record{PrimaryCode: "A001-X", SecondaryCode: "S1", Description: "desc"}, got[0])
}

func TestFromRows_PreservesOrder(t *testing.T) {
	rows := [][]string{
		{"Z", "1", "a", "s1", ""},
		{"short"},
		{"Y", "2", "b", "s2", ""},
		{"X", "3", "c", "s3", ""},
	}

	got := FromRows(rows)

	require.Len(t, got, 3)
	assert.Equal(t, "Z001-a", got[0].PrimaryCode)
	assert.Equal(t, "Y002-b", got[1].PrimaryCode)
	assert.Equal(t, "X003-c", got[2].PrimaryCode)
}

func TestFromRows_Empty(t *testing.T) {
	got := FromRows(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPadCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "000"},
		{"7", "007"},
		{"12", "012"},
		{"123", "123"},
		{"1234", "1234"},
		{"a", "00a"},
		{"ab", "0ab"},
		{"é", "00é"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PadCode(tt.in))
		})
	}
}

func TestRowToRecord_NormalizesUnicode(t *testing.T) {
	// "e" followed by a combining acute accent composes to U+00E9.
	rec, ok := RowToRecord([]string{"A", "1", "X", "S1", "cafe\u0301"})

	require.True(t, ok)
	assert.Equal(t, "caf\u00e9", rec.Description)
}
