package core

// error_messages.go maps technical errors to user-facing messages.
//
// # Error Codes Reference
//
// File Errors (FILE001-FILE099):
//
//	FILE001 - File too large: File exceeds the upload size limit
//	FILE002 - Invalid spreadsheet: File could not be read as a spreadsheet
//	FILE004 - No file: No file was selected
//	FILE005 - Empty workbook: The workbook has no sheets
//	FILE006 - Unsupported format: Only .xlsx and .xls files are accepted
//
// Export Errors (EXP001-EXP099):
//
//	EXP001 - Export in progress: An export is already running for this session
//	EXP002 - System busy: Too many exports in progress
//	EXP003 - No records: Upload a spreadsheet before exporting
//	EXP004 - Write failed: The document could not be written
//
// Session and Symbol Errors:
//
//	SES001 - Session expired: Session not found
//	SYM001 - Symbol not found: No barcode at that position
//	SYM002 - Invalid code: Value cannot be encoded as CODE39
//
// Request Errors:
//
//	UPL004 - Request cancelled
//	UPL005 - Request timeout
//	RATE001 - Rate limited
//
// ERR000 is the fallback when nothing matches. Support staff should check
// the server logs for the original error.
//
// Sentinel errors are matched first with errors.Is. Errors that only carry
// text (for example from third-party libraries) fall back to
// case-insensitive substring patterns; the first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/barcodesheet/internal/sheet"
	"github.com/JonMunkholm/barcodesheet/internal/symbol"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgFileTooLarge = UserMessage{
		Message: "File exceeds the upload size limit",
		Action:  "Split the spreadsheet into smaller files",
		Code:    "FILE001",
	}
	msgInvalidSpreadsheet = UserMessage{
		Message: "File could not be read as a spreadsheet",
		Action:  "Upload an .xlsx or .xls file saved from Excel",
		Code:    "FILE002",
	}
	msgNoFile = UserMessage{
		Message: "No file was selected",
		Action:  "Choose a spreadsheet to upload",
		Code:    "FILE004",
	}
	msgNoSheets = UserMessage{
		Message: "The workbook has no sheets",
		Action:  "Add the serial numbers to the first sheet",
		Code:    "FILE005",
	}
	msgUnsupportedFormat = UserMessage{
		Message: "Only .xlsx and .xls files are accepted",
		Action:  "Save the file as an Excel workbook and try again",
		Code:    "FILE006",
	}
	msgExportInProgress = UserMessage{
		Message: "An export is already running",
		Action:  "Wait for the current download to finish",
		Code:    "EXP001",
	}
	msgTooManyExports = UserMessage{
		Message: "Too many exports in progress",
		Action:  "Please wait a moment and try again",
		Code:    "EXP002",
	}
	msgNoRecords = UserMessage{
		Message: "There are no barcodes to export",
		Action:  "Upload a spreadsheet with at least one complete row",
		Code:    "EXP003",
	}
	msgWriteFailed = UserMessage{
		Message: "The document could not be written",
		Action:  "Please try again",
		Code:    "EXP004",
	}
	msgSessionNotFound = UserMessage{
		Message: "Your session has expired",
		Action:  "Upload the spreadsheet again",
		Code:    "SES001",
	}
	msgSymbolNotFound = UserMessage{
		Message: "No barcode at that position",
		Action:  "Reload the page",
		Code:    "SYM001",
	}
	msgInvalidContent = UserMessage{
		Message: "Value cannot be encoded as CODE39",
		Action:  "Use digits, uppercase letters, space and - . $ / + %",
		Code:    "SYM002",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller spreadsheet or try again later",
		Code:    "UPL005",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

// sentinelMessages is checked in order with errors.Is, so more specific
// errors come before the errors that wrap or match them.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{sheet.ErrUnsupportedFormat, msgUnsupportedFormat},
	{sheet.ErrNoSheets, msgNoSheets},
	{sheet.ErrInvalidSpreadsheet, msgInvalidSpreadsheet},
	{ErrExportInProgress, msgExportInProgress},
	{ErrTooManyExports, msgTooManyExports},
	{ErrNoRecords, msgNoRecords},
	{ErrSessionNotFound, msgSessionNotFound},
	{ErrSymbolNotFound, msgSymbolNotFound},
	{symbol.ErrInvalidContent, msgInvalidContent},
	{context.DeadlineExceeded, msgTimeout},
	{context.Canceled, msgCancelled},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	{"request body too large", msgFileTooLarge},
	{"file too large", msgFileTooLarge},
	{"no file provided", msgNoFile},
	{"write pdf", msgWriteFailed},
	{"context deadline exceeded", msgTimeout},
	{"context canceled", msgCancelled},
	{"rate limit", msgRateLimited},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(ErrExportInProgress)
//	// msg.Code == "EXP001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
