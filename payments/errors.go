package payments

import (
	"fmt"

	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
)

// UpstreamError carries the payments API's own diagnostics.
type UpstreamError struct {
	Operation  string
	Code       string
	Message    string
	StatusCode int
	RequestID  string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payments %s failed (%s): %s", e.Operation, e.Code, e.Message)
	}
	return fmt.Sprintf("payments %s failed: %s", e.Operation, e.Message)
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{apperrors.ErrUpstreamError}
	}
	return []error{apperrors.ErrUpstreamError, e.Err}
}

// Upstream tags an UpstreamError for the HTTP boundary: a missing account is
// KindAccountNotFound, rejected bank or form input is KindValidation, anything
// else is KindUpstream.
func Upstream(e *UpstreamError) error {
	op := "payments." + e.Operation
	switch {
	case e.StatusCode == 404, e.Code == "account_invalid", e.Code == "resource_missing":
		return apperrors.E(apperrors.KindAccountNotFound, op, e)
	case validationCodes[e.Code]:
		return apperrors.E(apperrors.KindValidation, op, e)
	}
	return apperrors.E(apperrors.KindUpstream, op, e)
}

var validationCodes = map[string]bool{
	"parameter_invalid_empty":   true,
	"parameter_invalid_integer": true,
	"parameter_missing":         true,
	"routing_number_invalid":    true,
	"account_number_invalid":    true,
	"url_invalid":               true,
}
