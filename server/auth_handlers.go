package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/connect-onboarding/identity"
	apperrors "github.com/jrsteele09/connect-onboarding/internal/errors"
	"github.com/jrsteele09/connect-onboarding/server/authflowrepo"
	"github.com/jrsteele09/connect-onboarding/sessions"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

var errInvalidCallback = errors.New("invalid login callback")

// LoginHandler starts an authorization code flow with PKCE against the identity provider.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "server.Login"
		state := generateRandomString(32)
		flow := &authflowrepo.AuthFlowState{
			CodeVerifier: oauth2.GenerateVerifier(),
			Nonce:        generateRandomString(32),
			ReturnURL:    safeReturnURL(r.URL.Query().Get("return_to"), ""),
			CreatedAt:    s.now(),
		}
		if err := s.authState.Upsert(state, flow); err != nil {
			s.writeError(w, r, apperrors.E(apperrors.KindInternal, op, err))
			return
		}

		authURL, err := s.identity.AuthCodeURL(r.Context(), state, flow.Nonce, flow.CodeVerifier)
		if err != nil {
			s.writeError(w, r, apperrors.E(apperrors.KindUpstream, op, err))
			return
		}
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// CallbackHandler redeems the authorization code, creates the server-side
// session and sets the signed session cookie.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "server.Callback"
		query := r.URL.Query()
		state := query.Get("state")
		code := query.Get("code")

		if errorParam := query.Get("error"); errorParam != "" {
			log.Warn().Str("error", errorParam).Str("error_description", query.Get("error_description")).Msg("Identity provider returned an error")
			s.writeError(w, r, apperrors.E(apperrors.KindValidation, op, errInvalidCallback))
			return
		}
		if code == "" || state == "" {
			s.writeError(w, r, apperrors.E(apperrors.KindValidation, op, apperrors.Wrapf(errInvalidCallback, "missing code or state")))
			return
		}

		flow, err := s.authState.Take(state)
		if err != nil {
			s.writeError(w, r, apperrors.E(apperrors.KindValidation, op, err))
			return
		}

		id, err := s.identity.Exchange(r.Context(), code, flow.CodeVerifier, flow.Nonce)
		switch {
		case errors.Is(err, identity.ErrNonceMismatch):
			s.writeError(w, r, apperrors.E(apperrors.KindValidation, op, err))
			return
		case err != nil:
			s.writeError(w, r, apperrors.E(apperrors.KindUpstream, op, err))
			return
		}

		// Never reuse a session id that existed before login.
		if previous, ok := s.currentSession(r); ok {
			_ = s.sessions.Delete(r.Context(), previous.ID)
		}

		now := s.now()
		session := &sessions.Session{
			ID:        uuid.NewString(),
			UserID:    id.Subject,
			Name:      id.Name,
			Picture:   id.Picture,
			Email:     id.Email,
			Claims:    id.Claims,
			CreatedAt: now,
			ExpiresAt: now.Add(s.config.GetMaxSessionAge()),
		}
		if err := s.sessions.Upsert(r.Context(), session); err != nil {
			s.writeError(w, r, apperrors.E(apperrors.KindInternal, op, err))
			return
		}
		cookie, err := s.cookies.Encode(session.ID, session.ExpiresAt)
		if err != nil {
			s.writeError(w, r, apperrors.E(apperrors.KindInternal, op, err))
			return
		}
		s.SetLoginSessionCookie(w, cookie, r, int(session.ExpiresAt.Sub(now)/time.Second))

		log.Info().Str("user_id", session.UserID).Msg("User signed in")
		redirectSuccess(w, r, safeReturnURL(flow.ReturnURL, RouteCustomForm))
	}
}

// LogoutHandler ends the local session and then the identity provider's session.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session, ok := s.currentSession(r); ok {
			if err := s.sessions.Delete(r.Context(), session.ID); err != nil {
				log.Err(err).Str("session_id", session.ID).Msg("Logout: failed to delete session")
			}
		}
		s.ClearLoginSessionCookie(w, r)
		http.Redirect(w, r, s.identity.LogoutURL(s.config.GetBaseURL()+RouteIndex), http.StatusFound)
	}
}
