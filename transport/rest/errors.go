package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/droptoken-backend/internal/apperror"
)

const (
	reasonBadRequest = "BAD_REQUEST"
	reasonNotFound   = "NOT_FOUND"
	reasonConflict   = "CONFLICT"
	reasonGone       = "GONE"
	reasonInternal   = "INTERNAL"
)

// writeError maps an error kind to its status. Anything unrecognized is logged and reported opaquely.
func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, reason := http.StatusInternalServerError, reasonInternal

	switch {
	case errors.Is(err, apperror.ErrGameFinished):
		status, reason = http.StatusGone, reasonGone
	case errors.Is(err, apperror.ErrMalformedRequest):
		status, reason = http.StatusBadRequest, reasonBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		status, reason = http.StatusNotFound, reasonNotFound
	case errors.Is(err, apperror.ErrConflict):
		status, reason = http.StatusConflict, reasonConflict
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = http.StatusText(status)
	} else {
		that.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	that.writeJSON(w, status, errorResponse{Reason: reason, Message: message})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
