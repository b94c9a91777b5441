// Package templates holds the HTML components of the barcode UI.
package templates

// SymbolView is one rendered code in the grid.
type SymbolView struct {
	Handle int
	Value  string
	// Missing is true when the code could not be encoded.
	Missing bool
}

// RecordView is one row of the grid: the pair of codes and the description.
type RecordView struct {
	Primary     SymbolView
	Secondary   SymbolView
	Description string
}

// ManualView is the manual preview.
type ManualView struct {
	Code    string
	Missing bool
}

// ErrorView is a user-facing error message.
type ErrorView struct {
	Message string
	Action  string
	Code    string
}

// PageData is everything the index page shows.
type PageData struct {
	Source     string
	Generation uint64
	Records    []RecordView
	Manual     *ManualView
	Error      *ErrorView
	MaxUpload  int64
}

// CanExport reports whether the download button is shown.
func (d PageData) CanExport() bool {
	return len(d.Records) > 0
}
