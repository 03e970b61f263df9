package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps service errors onto HTTP status codes. Internal details
// are logged but never echoed to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {

	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, common.ErrorValidation) || errors.Is(err, common.ErrMalformedPayload):
		status = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrTokenExpired):
		status = http.StatusUnauthorized
		msg = "unauthorized"
	case errors.Is(err, common.ErrorForbidden):
		status = http.StatusForbidden
		msg = "forbidden"
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
		msg = "not found"
	case errors.Is(err, common.ErrorAlreadyExists):
		status = http.StatusConflict
		msg = err.Error()
	}

	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	s.writeJSON(w, status, &errorResponse{Error: msg})
}
