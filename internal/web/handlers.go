package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/barcodesheet/internal/core"
	"github.com/JonMunkholm/barcodesheet/internal/symbol"
	"github.com/go-chi/chi/v5"
)

// handleIndex renders the workflow page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, nil)
}

// manualResponse is the JSON reply to a manual entry.
type manualResponse struct {
	Accepted  bool   `json:"accepted"`
	Code      string `json:"code,omitempty"`
	Encodable bool   `json:"encodable"`
}

// handleManual sets the manual preview. Blank input changes nothing.
func (s *Server) handleManual(w http.ResponseWriter, r *http.Request) {
	ctrl := controllerFrom(r)
	accepted := ctrl.SubmitManual(r.FormValue("code"))

	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	resp := manualResponse{Accepted: accepted}
	if m := ctrl.Manual(); m != nil {
		resp.Code = m.Code
		resp.Encodable = m.Handle != nil
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSymbol serves one entry of the session's handle table as SVG.
func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("symbol index %q: %w", raw, core.ErrSymbolNotFound))
		return
	}

	sym, err := controllerFrom(r).Workspace().Handle(index)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("symbol %d: %w", index, err))
		return
	}
	writeSVG(w, sym)
}

// handleManualSymbol serves the manual preview as SVG.
func (s *Server) handleManualSymbol(w http.ResponseWriter, r *http.Request) {
	m := controllerFrom(r).Manual()
	if m == nil || m.Handle == nil {
		s.respondError(w, r, fmt.Errorf("manual preview: %w", core.ErrSymbolNotFound))
		return
	}
	writeSVG(w, m.Handle)
}

func writeSVG(w http.ResponseWriter, sym *symbol.Symbol) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(sym.SVG())
}
