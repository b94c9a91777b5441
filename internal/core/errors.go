package core

import "errors"

var (
	// ErrExportInProgress is returned when a session starts an export while
	// its previous export is still running.
	ErrExportInProgress = errors.New("export already in progress")

	// ErrNoRecords is returned when exporting a workspace with no records.
	ErrNoRecords = errors.New("no records to export")

	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSymbolNotFound is returned when a handle index is out of range or
	// the handle could not be rendered.
	ErrSymbolNotFound = errors.New("symbol not found")
)
