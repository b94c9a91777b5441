package web

// Shared helpers used across handlers.

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/barcodesheet/internal/core"
	"github.com/JonMunkholm/barcodesheet/internal/web/templates"
)

// maxAuditLimit caps the ?limit= parameter of the audit listing.
const maxAuditLimit = 500

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// pageData builds the view model of the index page from a controller.
func pageData(c *core.Controller, maxUpload int64) templates.PageData {
	data := templates.PageData{MaxUpload: maxUpload}
	if c == nil {
		return data
	}

	ws := c.Workspace()
	data.Source = ws.Source
	data.Generation = ws.Generation
	data.Records = make([]templates.RecordView, ws.Len())
	for i, rec := range ws.Records {
		primary, secondary := ws.Pair(i)
		data.Records[i] = templates.RecordView{
			Primary:     templates.SymbolView{Handle: 2 * i, Value: rec.PrimaryCode, Missing: primary == nil},
			Secondary:   templates.SymbolView{Handle: 2*i + 1, Value: rec.SecondaryCode, Missing: secondary == nil},
			Description: rec.Description,
		}
	}

	if m := c.Manual(); m != nil {
		data.Manual = &templates.ManualView{Code: m.Code, Missing: m.Handle == nil}
	}
	return data
}

// renderPage writes the index page with an optional error alert.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, errView *templates.ErrorView) {
	data := pageData(controllerFrom(r), s.cfg.Upload.MaxFileSize)
	data.Error = errView

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Page(data).Render(r.Context(), w); err != nil {
		slog.Error("render page", "error", err)
	}
}
