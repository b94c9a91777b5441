// Package core provides the barcode workflow: ingest a spreadsheet, keep the
// derived records and their rendered symbols, preview a manual code, and
// export everything as one PDF.
//
// This package holds all domain logic independent of any UI or transport
// layer. The web handlers and the CLI both drive it.
//
// # Workspace
//
// Each successful ingestion builds a new immutable [Workspace]: the records
// in sheet order plus a handle table of rendered symbols, two per record.
// Handle 2i is record i's primary code, handle 2i+1 its secondary code. A
// handle is nil when the code cannot be rendered. The [Controller] swaps the
// whole Workspace in one step; nothing is edited in place, so the records and
// the handle table can never drift apart.
//
// # Export
//
// An export rasterizes every handle concurrently, waits for all of them, then
// composes the document and writes it once:
//
//  1. [Controller] rejects a second export while one is running ([ErrExportInProgress])
//  2. [ExportLimiter] caps concurrent exports across sessions ([ErrTooManyExports])
//  3. [RasterizeAll] fans out one goroutine per handle and joins
//  4. layout.Compose places images and descriptions and writes the PDF
//
// A nil or undecodable raster only drops that image; the rest of the
// document is unaffected. Cancellation and write failures abort the export.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE006: Upload and spreadsheet errors
//   - EXP001-EXP004: Export errors
//   - SES001, SYM001-SYM002: Session and symbol lookups
//   - UPL004-UPL005: Cancelled or timed out requests
package core
