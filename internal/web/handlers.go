package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/attendly/attendance/internal/core"
	"github.com/attendly/attendance/internal/logging"
)

// multipartMemoryLimit is how much of a multipart body is held in memory
// before spilling to temp files.
const multipartMemoryLimit = 32 << 20

// BatchResponse is the JSON payload for a committed batch.
type BatchResponse struct {
	SummaryID string `json:"summaryId"`
	Table     string `json:"table"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleBatchUpload accepts a multipart form with one or more files under
// the "files" field and runs them through the import pipeline as one
// all-or-nothing batch.
func (s *Server) handleBatchUpload(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	maxBody := s.cfg.Upload.MaxFileSize * int64(s.cfg.Upload.MaxBatchFiles)
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		s.respondError(w, r, fmt.Errorf("parse multipart form: %w", err), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		s.respondError(w, r,
			&core.ImportError{Code: core.CodeEmptyFile, Message: "no files in request"},
			http.StatusBadRequest)
		return
	}
	if len(headers) > s.cfg.Upload.MaxBatchFiles {
		s.respondError(w, r,
			fmt.Errorf("batch of %d files exceeds limit of %d", len(headers), s.cfg.Upload.MaxBatchFiles),
			http.StatusBadRequest)
		return
	}

	files := make([]core.RawUpload, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > s.cfg.Upload.MaxFileSize {
			s.respondError(w, r,
				fmt.Errorf("file %q exceeds %d byte limit", fh.Filename, s.cfg.Upload.MaxFileSize),
				http.StatusRequestEntityTooLarge)
			return
		}

		f, err := fh.Open()
		if err != nil {
			s.respondError(w, r, fmt.Errorf("open upload %q: %w", fh.Filename, err),
				http.StatusInternalServerError)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.respondError(w, r, fmt.Errorf("read upload %q: %w", fh.Filename, err),
				http.StatusInternalServerError)
			return
		}

		files = append(files, core.RawUpload{
			Data:        data,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		})
	}

	result, err := s.service.ProcessBatch(r.Context(), files)
	if err != nil {
		status := http.StatusInternalServerError
		if _, ok := err.(*core.ImportError); ok {
			status = http.StatusUnprocessableEntity
		}
		s.respondError(w, r, err, status)
		return
	}

	logger.Info("batch accepted", "files", len(files), "summary_id", result.SummaryID.String())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(BatchResponse{
		SummaryID: result.SummaryID.String(),
		Table:     result.Table,
	})
}
