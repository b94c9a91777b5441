package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, data PageData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Page(data).Render(context.Background(), &buf))
	return buf.String()
}

func TestPage_Empty(t *testing.T) {
	html := render(t, PageData{MaxUpload: 20 << 20})

	assert.Contains(t, html, `name="file"`)
	assert.Contains(t, html, `name="code"`)
	assert.NotContains(t, html, `action="/export"`, "no download button without records")
	assert.NotContains(t, html, `class="preview"`)
	assert.Contains(t, html, "max 20 MB")
}

func TestPage_Records(t *testing.T) {
	html := render(t, PageData{
		Source:     "serials.xlsx",
		Generation: 3,
		Records: []RecordView{
			{
				Primary:     SymbolView{Handle: 0, Value: "A007-X"},
				Secondary:   SymbolView{Handle: 1, Value: "S_1", Missing: true},
				Description: "<Widget>",
			},
		},
	})

	assert.Contains(t, html, `action="/export"`)
	assert.Contains(t, html, `<img src="/symbols/0?g=3" alt="A007-X">`)
	assert.Contains(t, html, `<span class="missing">S_1</span>`)
	assert.Contains(t, html, "&lt;Widget&gt;")
	assert.NotContains(t, html, "<Widget>")
}

func TestPage_ManualPreview(t *testing.T) {
	html := render(t, PageData{Manual: &ManualView{Code: "ABC 1"}})
	assert.Contains(t, html, `src="/manual.svg?c=ABC+1"`)

	html = render(t, PageData{Manual: &ManualView{Code: "a_b", Missing: true}})
	assert.Contains(t, html, "a_b cannot be encoded as CODE39")
}

func TestErrorAlert(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorAlert("Bad file", "Try again", "FILE002").Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), "<strong>Bad file</strong>")
	assert.Contains(t, buf.String(), "Code: FILE002")
}

func TestPage_EscapesAttributes(t *testing.T) {
	html := render(t, PageData{Manual: &ManualView{Code: `A"1`}})

	assert.Contains(t, html, `alt="A&#34;1"`)
	assert.NotContains(t, html, `alt="A"1"`)
}

func TestPage_ErrorAlert(t *testing.T) {
	html := render(t, PageData{Error: &ErrorView{Message: "Too big", Code: "FILE001"}})

	assert.Contains(t, html, `<div class="alert" role="alert"><strong>Too big</strong>`)
	assert.NotContains(t, html, "<span></span>", "no action line when the action is empty")
}

func TestPage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Page(PageData{}).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
