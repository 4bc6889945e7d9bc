package server

import (
	"encoding/json"
	"net/http"
)

// IndexHandler renders the home page
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		_, signedIn := s.currentSession(r)
		s.render(w, r, tmpl, map[string]any{
			"SignedIn": signedIn,
		})
	}
}

// DashboardHandler shows the signed-in profile and the raw identity claims.
func (s *Server) DashboardHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("dashboard.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session := requestContextFrom(r.Context()).Session
		claims, err := json.MarshalIndent(session.Claims, "", "    ")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.render(w, r, tmpl, map[string]any{
			"Claims": string(claims),
		})
	}
}

// TenantHandler shows the tenant record the user belongs to.
func (s *Server) TenantHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("tenant.html")

	return func(w http.ResponseWriter, r *http.Request) {
		rc := requestContextFrom(r.Context())
		s.render(w, r, tmpl, map[string]any{
			"Tenant":   rc.Tenant,
			"Projects": rc.Tenant.ProjectNames(),
		})
	}
}
