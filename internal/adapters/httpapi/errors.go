package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/nomadnova/nomadnova-api/internal/app/apperr"
)

type errorBody struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	body := errorResponse{Error: errorBody{
		Code:    code,
		Message: message,
		Details: details,
	}}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		body.Error.RequestID = rid
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeAppError maps service errors onto the wire. Anything that is not an
// app error is treated as an infrastructure failure: logged, then surfaced as
// 503 so clients can distinguish "try again later" from domain rejections.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	slog.Error("unhandled request error",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeError(w, r, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "temporary storage failure, please retry", nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body", nil)
		return false
	}
	return true
}
