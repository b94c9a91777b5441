package sheet

import (
	"errors"
	"fmt"
)

// ErrInvalidSpreadsheet matches every ParseError via errors.Is.
var ErrInvalidSpreadsheet = errors.New("invalid spreadsheet")

// ErrUnsupportedFormat indicates the file extension is not a spreadsheet format
// this package can read.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ErrNoSheets indicates the workbook opened but contains no worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// ParseError reports a spreadsheet that could not be read.
type ParseError struct {
	Source string // uploaded file name
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid spreadsheet %q: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrInvalidSpreadsheet as a match for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidSpreadsheet
}

func newParseError(source string, err error) *ParseError {
	return &ParseError{Source: source, Err: err}
}
