package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviedb/internal/catalog"
	"github.com/desertthunder/moviedb/internal/shared"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps catalog and store errors onto an HTTP status and a machine-readable code.
func statusFor(err error) (int, string) {
	if rej, ok := catalog.IsRejection(err); ok {
		switch rej.Reason {
		case catalog.ReasonNotFound:
			return http.StatusNotFound, rej.Reason.String()
		case catalog.ReasonDuplicateTitle:
			return http.StatusConflict, rej.Reason.String()
		default:
			return http.StatusUnprocessableEntity, rej.Reason.String()
		}
	}

	switch {
	case errors.Is(err, shared.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	case errors.Is(err, shared.ErrUnreadableSource), errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondError(w http.ResponseWriter, logger *log.Logger, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	}
	respondJSON(w, status, ErrorResponse{Error: code, Message: err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
