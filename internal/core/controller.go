package core

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/barcodesheet/internal/logging"
	"github.com/JonMunkholm/barcodesheet/internal/sheet"
	"github.com/JonMunkholm/barcodesheet/internal/symbol"
)

// ManualPreview is the single manually entered code.
// Handle is nil when the code cannot be encoded.
type ManualPreview struct {
	Code   string
	Handle *symbol.Symbol
}

// Controller owns the state of one user's workflow: the current Workspace,
// the manual preview, and the export guard.
type Controller struct {
	id   string
	opts symbol.Options

	mu         sync.RWMutex
	workspace  *Workspace
	generation uint64
	manual     *ManualPreview
	lastSeen   time.Time

	exporting atomic.Bool
}

// NewController creates a controller with an empty workspace.
func NewController(id string, opts symbol.Options) *Controller {
	return &Controller{
		id:        id,
		opts:      opts,
		workspace: emptyWorkspace(),
		lastSeen:  time.Now(),
	}
}

// ID returns the session ID the controller belongs to.
func (c *Controller) ID() string {
	return c.id
}

// Ingest parses the spreadsheet and, on success, replaces the workspace.
// On failure the previous workspace stays in place and the error (a
// *sheet.ParseError for unreadable files) is returned.
func (c *Controller) Ingest(ctx context.Context, name string, r io.Reader) (*Workspace, error) {
	log := logging.WithFields(ctx, "session", c.id, "source", name)

	rows, err := sheet.ReadRows(name, r)
	if err != nil {
		log.Warn("spreadsheet rejected", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := sheet.FromRows(rows)

	c.mu.Lock()
	c.generation++
	ws := NewWorkspace(c.generation, name, records, c.opts)
	c.workspace = ws
	c.lastSeen = time.Now()
	c.mu.Unlock()

	log.Info("spreadsheet ingested",
		"generation", ws.Generation,
		"rows", len(rows),
		"records", ws.Len(),
		"dropped_rows", len(rows)-ws.Len(),
		"unrenderable_codes", ws.MissingHandles(),
	)
	return ws, nil
}

// Workspace returns the current snapshot. Never nil.
func (c *Controller) Workspace() *Workspace {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.workspace
}

// SubmitManual sets the preview to the trimmed input. Blank input is ignored
// and reported as false.
func (c *Controller) SubmitManual(input string) bool {
	code := strings.TrimSpace(input)
	if code == "" {
		return false
	}

	preview := &ManualPreview{Code: code, Handle: renderOrNil(code, c.opts)}

	c.mu.Lock()
	c.manual = preview
	c.lastSeen = time.Now()
	c.mu.Unlock()
	return true
}

// Manual returns the current preview, or nil when none was submitted.
func (c *Controller) Manual() *ManualPreview {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.manual
}

// Exporting reports whether an export is running for this controller.
func (c *Controller) Exporting() bool {
	return c.exporting.Load()
}

// beginExport claims the export guard. The returned func releases it.
func (c *Controller) beginExport() (func(), error) {
	if !c.exporting.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	return func() { c.exporting.Store(false) }, nil
}

func (c *Controller) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Controller) idleSince() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSeen
}
