package layout

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// lineHeightFactor matches the usual 1.15 leading for wrapped text.
const lineHeightFactor = 1.15

// Item is one record ready for placement. A nil image is omitted from the
// page without affecting the rest of the document.
type Item struct {
	Primary     []byte // PNG
	Secondary   []byte // PNG
	Description string
}

// Result summarizes a composed document.
type Result struct {
	Pages         int         `json:"pages"`
	ImagesPlaced  int         `json:"imagesPlaced"`
	ImagesOmitted int         `json:"imagesOmitted"`
	Placements    []Placement `json:"-"`
}

// Compose lays items out on the grid and writes the PDF to w in one call.
// Write errors from w are returned; images that fail to decode are omitted.
func Compose(w io.Writer, items []Item, grid Grid) (Result, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetFont("Helvetica", "", FontSize)

	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	res := Result{Placements: make([]Placement, 0, len(items))}

	pdf.AddPage()
	for i, item := range items {
		p := grid.Place(i)
		for pdf.PageNo() < p.Page+1 {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", FontSize)
		}
		res.Placements = append(res.Placements, p)

		if placeImage(pdf, fmt.Sprintf("r%d-primary", i), item.Primary, p.X, p.Y) {
			res.ImagesPlaced++
		} else {
			res.ImagesOmitted++
		}
		if placeImage(pdf, fmt.Sprintf("r%d-secondary", i), item.Secondary, p.X, p.SecondaryY()) {
			res.ImagesPlaced++
		} else {
			res.ImagesOmitted++
		}

		if item.Description != "" {
			drawText(pdf, enc, item.Description, p)
		}
	}

	res.Pages = pdf.PageCount()
	if err := pdf.Output(w); err != nil {
		return res, fmt.Errorf("write pdf: %w", err)
	}
	return res, nil
}

// placeImage registers and draws one PNG. Returns false when data is nil or
// not a decodable PNG.
func placeImage(pdf *fpdf.Fpdf, name string, data []byte, x, y float64) bool {
	if len(data) == 0 {
		return false
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return false
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	pdf.ImageOptions(name, x, y, ImageWidth, ImageHeight, false, opts, 0, "")
	return true
}

// drawText writes the description at the placement's text origin, wrapped
// to TextMaxWidth. Core fonts are Windows-1252 encoded.
func drawText(pdf *fpdf.Fpdf, enc *encoding.Encoder, text string, p Placement) {
	toPDF := func(s string) string {
		out, err := enc.String(s)
		if err != nil {
			return s
		}
		return out
	}
	measure := func(s string) float64 {
		return pdf.GetStringWidth(toPDF(s))
	}

	_, unitSize := pdf.GetFontSize()
	lineHeight := unitSize * lineHeightFactor

	x, y := p.TextPos()
	for i, line := range wrapText(text, TextMaxWidth, measure) {
		pdf.Text(x, y+float64(i)*lineHeight, toPDF(line))
	}
}
