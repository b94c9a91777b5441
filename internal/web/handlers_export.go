package web

import (
	"bytes"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
)

// handleExport composes the session's records into a PDF download.
// The document is buffered so that failures can still set the status.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctrl := controllerFrom(r)

	var buf bytes.Buffer
	ctx := WithRequestMetadata(r.Context(), r)
	summary, err := s.service.Export(ctx, ctrl, &buf)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": s.service.ExportFilename(),
	}))
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	h.Set("X-Images-Omitted", strconv.Itoa(summary.ImagesOmitted))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("export download interrupted", "session", ctrl.ID(), "error", err)
	}
}
