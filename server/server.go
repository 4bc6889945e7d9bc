package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/connect-onboarding/identity"
	"github.com/jrsteele09/connect-onboarding/internal/config"
	"github.com/jrsteele09/connect-onboarding/onboarding"
	"github.com/jrsteele09/connect-onboarding/server/authflowrepo"
	"github.com/jrsteele09/connect-onboarding/sessions"
	"github.com/jrsteele09/connect-onboarding/tenants"
	"github.com/rs/zerolog/log"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Tenants    tenants.Repo
	Onboarding *onboarding.Service
	Sessions   sessions.Repo
	Cookies    *sessions.CookieCodec
	Identity   identity.Provider
	AuthFlows  authflowrepo.Repo
}

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	tenants    tenants.Repo
	resolver   *tenants.Resolver
	onboarding *onboarding.Service
	sessions   sessions.Repo
	cookies    *sessions.CookieCodec
	identity   identity.Provider
	authState  authflowrepo.Repo
	now        func() time.Time
}

func New(config config.Config, deps Deps) (*Server, error) {
	switch {
	case deps.Tenants == nil:
		return nil, fmt.Errorf("[Server New] missing tenant repo")
	case deps.Onboarding == nil:
		return nil, fmt.Errorf("[Server New] missing onboarding service")
	case deps.Sessions == nil || deps.Cookies == nil:
		return nil, fmt.Errorf("[Server New] missing session store")
	case deps.Identity == nil:
		return nil, fmt.Errorf("[Server New] missing identity provider")
	}
	if deps.AuthFlows == nil {
		deps.AuthFlows = authflowrepo.NewInMemoryRepo(authflowrepo.DefaultTTL)
	}

	s := &Server{
		env:        config.GetEnv(),
		mux:        http.NewServeMux(),
		config:     config,
		tenants:    deps.Tenants,
		resolver:   tenants.NewResolver(deps.Tenants, config.GetClaimNamespace()),
		onboarding: deps.Onboarding,
		sessions:   deps.Sessions,
		cookies:    deps.Cookies,
		identity:   deps.Identity,
		authState:  deps.AuthFlows,
		now:        time.Now,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Debug().Msgf("[%-19s] %s", colouredMethod(method), path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
