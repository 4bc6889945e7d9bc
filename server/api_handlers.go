package server

import (
	"net/http"

	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
)

type statusResponse struct {
	Status string `json:"status"`
}

// StatusHandler is the public health check.
func (s *Server) StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			s.writeError(w, r, apperrors.E(apperrors.KindValidation, "server.Status", errUnsupportedMethod))
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{Status: "All green."})
	}
}
