package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/connect-onboarding/sessions"
	"github.com/jrsteele09/connect-onboarding/tenants"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const contextKeyRequest ContextKey = "request_context"

// RequestContext is the signed-in identity and, on tenant routes, the resolved tenant.
type RequestContext struct {
	Session *sessions.Session
	Tenant  *tenants.Tenant
}

func requestContextFrom(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(contextKeyRequest).(*RequestContext)
	return rc
}

func withRequestContext(r *http.Request, rc *RequestContext) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), contextKeyRequest, rc))
}

// RequireSession redirects to the landing page unless the request carries a
// valid session cookie that refers to a live session.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session, ok := s.currentSession(r)
			if !ok {
				s.ClearLoginSessionCookie(w, r)
				http.Redirect(w, r, RouteIndex, http.StatusSeeOther)
				return
			}
			next(w, withRequestContext(r, &RequestContext{Session: session}))
		}
	}
}

// RequireTenant resolves the session's tenant claim. It must run after RequireSession.
func (s *Server) RequireTenant() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			rc := requestContextFrom(r.Context())
			if rc == nil || rc.Session == nil {
				http.Redirect(w, r, RouteIndex, http.StatusSeeOther)
				return
			}
			tenant, err := s.resolver.Resolve(r.Context(), rc.Session.Claims)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			next(w, withRequestContext(r, &RequestContext{Session: rc.Session, Tenant: tenant}))
		}
	}
}

func (s *Server) currentSession(r *http.Request) (*sessions.Session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	sessionID, err := s.cookies.Decode(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Msg("Rejected session cookie")
		return nil, false
	}
	session, err := s.sessions.Get(r.Context(), sessionID)
	if err != nil {
		return nil, false
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(r.Context(), sessionID)
		return nil, false
	}
	return session, true
}
