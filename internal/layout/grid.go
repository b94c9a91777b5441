// Package layout places barcode pairs on A4 pages and writes the PDF.
//
// All lengths are millimetres. Records fill a two-column grid: record i sits
// at row i/2, column i%2. Rows that run past the bottom of a page continue
// on the next page at the same offsets.
package layout

const (
	PageWidth  = 210.0
	PageHeight = 297.0

	MarginLeft  = 10.0
	MarginTop   = 10.0
	ColumnWidth = 100.0
	RowHeight   = 70.0
	ItemsPerRow = 2

	ImageWidth       = 90.0
	ImageHeight      = 30.0
	SecondaryOffsetY = 35.0

	TextOffsetX  = 2.0
	TextOffsetY  = 70.0
	TextMaxWidth = 90.0
	FontSize     = 10.0
)

// Grid maps record indexes to page coordinates.
type Grid struct {
	// RowsPerPage is the number of grid rows per page. Zero puts every row
	// on the first page.
	RowsPerPage int
}

// DefaultGrid fits as many rows as start within an A4 page.
func DefaultGrid() Grid {
	h := PageHeight - MarginTop
	return Grid{RowsPerPage: int(h / RowHeight)}
}

// Placement is the position of one record.
type Placement struct {
	Index  int     `json:"index"`
	Page   int     `json:"page"` // zero-based
	Row    int     `json:"row"`  // logical row across all pages
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Place returns the placement of the record at index.
func (g Grid) Place(index int) Placement {
	row := index / ItemsPerRow
	col := index % ItemsPerRow

	page, local := 0, row
	if g.RowsPerPage > 0 {
		page = row / g.RowsPerPage
		local = row % g.RowsPerPage
	}

	return Placement{
		Index:  index,
		Page:   page,
		Row:    row,
		Column: col,
		X:      MarginLeft + float64(col)*ColumnWidth,
		Y:      MarginTop + float64(local)*RowHeight,
	}
}

// Pages returns how many pages n records occupy. An empty document still
// has one page.
func (g Grid) Pages(n int) int {
	if n <= 0 {
		return 1
	}
	return g.Place(n-1).Page + 1
}

// SecondaryY is the top of the secondary image for a placement.
func (p Placement) SecondaryY() float64 {
	return p.Y + SecondaryOffsetY
}

// TextPos is the baseline origin of the description.
func (p Placement) TextPos() (x, y float64) {
	return p.X + TextOffsetX, p.Y + TextOffsetY
}
