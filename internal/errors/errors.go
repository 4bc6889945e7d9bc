package errors

import (
	"errors"
	"fmt"
)

// Common error values for the onboarding service
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidSession  = errors.New("invalid session")

	// Tenant errors
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrInvalidTenantClaim   = errors.New("invalid tenant claim")
	ErrAccountAlreadyLinked = errors.New("tenant already linked to a different account")

	// Account errors
	ErrAccountNotFound = errors.New("could not find connect account")

	// General errors
	ErrNotFound      = errors.New("not found")
	ErrInternal      = errors.New("internal error")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUpstreamError = errors.New("payments api error")
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthRequired
	KindTenantNotFound
	KindAccountNotFound
	KindValidation
	KindConflict
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindAuthRequired:
		return "auth_required"
	case KindTenantNotFound:
		return "tenant_not_found"
	case KindAccountNotFound:
		return "account_not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is a tagged error. Op names the operation that failed, e.g. "onboarding.Start".
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E tags err with a kind. A nil err stays nil.
func E(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the outermost tagged error in err's chain,
// falling back to sentinel matching and then KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired), errors.Is(err, ErrInvalidSession):
		return KindAuthRequired
	case errors.Is(err, ErrTenantNotFound), errors.Is(err, ErrInvalidTenantClaim):
		return KindTenantNotFound
	case errors.Is(err, ErrAccountNotFound):
		return KindAccountNotFound
	case errors.Is(err, ErrAccountAlreadyLinked):
		return KindConflict
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrUpstreamError):
		return KindUpstream
	}
	return KindInternal
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New is errors.New, re-exported so callers need a single errors import.
func New(text string) error {
	return errors.New(text)
}
