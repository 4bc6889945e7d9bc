package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
	"github.com/jrsteele09/connect-onboarding/onboarding"
	"github.com/jrsteele09/connect-onboarding/payments"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json"

var errUnsupportedMethod = apperrors.New("unsupported method")

type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to write JSON response")
	}
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindTenantNotFound, apperrors.KindAccountNotFound:
		return http.StatusNotFound
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindUpstream:
		return http.StatusBadGateway
	case apperrors.KindAuthRequired:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError is the single place errors become HTTP responses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperrors.KindOf(err)
	status := statusFor(kind)
	body := errorBody{Error: http.StatusText(status)}

	var upstream *payments.UpstreamError
	var invalid *onboarding.ValidationError
	switch {
	case kind == apperrors.KindAccountNotFound:
		body.Error = "Could not find connect account."
	case kind == apperrors.KindTenantNotFound:
		body.Error = "Could not find tenant."
	case apperrors.As(err, &invalid):
		body.Error = "Invalid input."
		body.Fields = invalid.Fields
	case apperrors.As(err, &upstream):
		body.Error = upstream.Message
		body.Code = upstream.Code
	case apperrors.Is(err, errUnsupportedMethod):
		body.Error = "Unsupported method."
	}

	event := log.Error()
	if status < http.StatusInternalServerError {
		event = log.Warn()
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("kind", kind.String()).
		Int("status", status).
		Msg("Request failed")

	writeJSON(w, status, body)
}
