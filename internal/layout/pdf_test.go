package layout

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for x := 0; x < 20; x += 2 {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.Black)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompose_TwoRecords(t *testing.T) {
	img := testPNG(t)
	items := []Item{
		{Primary: img, Secondary: img, Description: "Widget"},
		{Primary: img, Secondary: img},
	}

	var out bytes.Buffer
	res, err := Compose(&out, items, DefaultGrid())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF-")))
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, 4, res.ImagesPlaced)
	assert.Equal(t, 0, res.ImagesOmitted)

	require.Len(t, res.Placements, 2)
	assert.Equal(t, 0, res.Placements[0].Row)
	assert.Equal(t, 0, res.Placements[0].Column)
	assert.Equal(t, 10.0, res.Placements[0].X)
	assert.Equal(t, 0, res.Placements[1].Row)
	assert.Equal(t, 1, res.Placements[1].Column)
	assert.Equal(t, 110.0, res.Placements[1].X)
}

func TestCompose_MissingImagesOmitted(t *testing.T) {
	img := testPNG(t)
	items := []Item{
		{Primary: nil, Secondary: img, Description: "first"},
		{Primary: img, Secondary: []byte("not a png"), Description: "second"},
		{Primary: img, Secondary: img, Description: "third"},
	}

	var out bytes.Buffer
	res, err := Compose(&out, items, DefaultGrid())
	require.NoError(t, err)

	assert.Equal(t, 4, res.ImagesPlaced)
	assert.Equal(t, 2, res.ImagesOmitted)
	assert.Len(t, res.Placements, 3)
	assert.NotZero(t, out.Len())
}

func TestCompose_Paginates(t *testing.T) {
	img := testPNG(t)
	items := make([]Item, 9)
	for i := range items {
		items[i] = Item{Primary: img, Secondary: img}
	}

	var out bytes.Buffer
	res, err := Compose(&out, items, DefaultGrid())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 1, res.Placements[8].Page)
	assert.Equal(t, MarginTop, res.Placements[8].Y)
}

func TestCompose_Empty(t *testing.T) {
	var out bytes.Buffer
	res, err := Compose(&out, nil, DefaultGrid())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Pages)
	assert.Zero(t, res.ImagesPlaced)
}

func TestCompose_NonLatinDescription(t *testing.T) {
	items := []Item{{Description: "Größe 10 · 日本"}}

	var out bytes.Buffer
	_, err := Compose(&out, items, DefaultGrid())
	require.NoError(t, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestCompose_WriteErrorPropagates(t *testing.T) {
	_, err := Compose(failingWriter{}, []Item{{Description: "x"}}, DefaultGrid())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWrapText(t *testing.T) {
	// One unit per rune.
	measure := func(s string) float64 { return float64(len([]rune(s))) }

	tests := []struct {
		name string
		text string
		max  float64
		want []string
	}{
		{"fits", "short text", 20, []string{"short text"}},
		{"wraps", "one two three", 7, []string{"one two", "three"}},
		{"long word", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"newline", "a\nb", 10, []string{"a", "b"}},
		{"collapses spaces", "a    b", 10, []string{"a b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.text, tt.max, measure)
			assert.Equal(t, tt.want, got, strings.Join(got, "|"))
		})
	}
}
