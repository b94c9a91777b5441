package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// uploadResponse summarizes an ingestion for JSON clients.
type uploadResponse struct {
	Generation   uint64 `json:"generation"`
	Source       string `json:"source"`
	Records      int    `json:"records"`
	Unrenderable int    `json:"unrenderable"`
}

// handleUpload ingests a spreadsheet into the session. On failure the
// session keeps its previous records.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctrl := controllerFrom(r)

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			err = fmt.Errorf("%w: %v", errTooLarge, err)
		} else {
			err = fmt.Errorf("%w: %v", errNoFile, err)
		}
		s.respondError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errNoFile)
		return
	}
	defer file.Close()

	ctx := WithRequestMetadata(r.Context(), r)
	ws, err := s.service.Ingest(ctx, ctrl, header.Filename, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		Generation:   ws.Generation,
		Source:       ws.Source,
		Records:      ws.Len(),
		Unrenderable: ws.MissingHandles(),
	})
}
