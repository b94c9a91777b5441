package web

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/barcodesheet/internal/core"
	"github.com/JonMunkholm/barcodesheet/internal/sheet"
)

// recordsResponse is the JSON view of a workspace.
type recordsResponse struct {
	Generation   uint64         `json:"generation"`
	Source       string         `json:"source,omitempty"`
	LoadedAt     *time.Time     `json:"loadedAt,omitempty"`
	Records      []sheet.Record `json:"records"`
	Unrenderable int            `json:"unrenderable"`
}

// handleRecords returns the session's current records.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	ws := controllerFrom(r).Workspace()

	resp := recordsResponse{
		Generation:   ws.Generation,
		Source:       ws.Source,
		Records:      ws.Records,
		Unrenderable: ws.MissingHandles(),
	}
	if !ws.LoadedAt.IsZero() {
		loaded := ws.LoadedAt
		resp.LoadedAt = &loaded
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAuditLog lists recent ingest and export events.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := min(parseIntParam(r, "limit", 50), maxAuditLimit)

	entries, err := s.service.RecentAudit(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// healthResponse reports liveness and export capacity.
type healthResponse struct {
	Status   string                   `json:"status"`
	Sessions int                      `json:"sessions"`
	Exports  core.ExportLimiterStatus `json:"exports"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Sessions: s.service.Sessions().Len(),
		Exports:  s.service.ExportLimiterStatus(),
	})
}
