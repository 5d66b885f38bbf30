package web

// errors.go provides unified error response handling for the web layer.
// Technical errors are logged server-side with the request ID; clients get
// the stable error code plus user-facing guidance as JSON.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/attendly/attendance/internal/core"
)

// ErrorResponse is the JSON structure for API error responses. The optional
// fields surface the classifier's diagnostics for mislabeled files.
type ErrorResponse struct {
	Error             string `json:"error"`
	Message           string `json:"message"`
	Action            string `json:"action,omitempty"`
	Code              string `json:"code"`
	File              string `json:"file,omitempty"`
	DetectedType      string `json:"detectedType,omitempty"`
	OriginalExtension string `json:"originalExtension,omitempty"`
}

// respondError logs the technical error and writes the user-facing response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	resp := ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}
	if ie, ok := err.(*core.ImportError); ok {
		resp.File = ie.Filename
		resp.DetectedType = ie.DetectedType
		resp.OriginalExtension = ie.OriginalExtension
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}
