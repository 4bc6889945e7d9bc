package server

import (
	"github.com/jrsteele09/connect-onboarding/internal/metrics"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare(RouteIndex)...))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.HTMLMiddleWare(RouteLogin)...))
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.HTMLMiddleWare(RouteCallback)...))
	s.RegisterRouteHandler("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare(RouteLogout)...))

	// Signed-in pages
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleWare(RouteDashboard, s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteTenant, ChainMiddleware(s.TenantHandler(), s.HTMLMiddleWare(RouteTenant, s.RequireSession(), s.RequireTenant())...))

	// Onboarding
	s.RegisterRouteHandler("GET "+RouteCustomForm, ChainMiddleware(s.CustomFormIndexHandler(), s.HTMLMiddleWare(RouteCustomForm, s.RequireSession(), s.RequireTenant())...))
	s.RegisterRouteHandler("POST "+RouteCustomFormNew, ChainMiddleware(s.CustomFormNewHandler(), s.HTMLMiddleWare(RouteCustomFormNew, s.RequireSession(), s.RequireTenant())...))
	s.RegisterRouteHandler("GET "+RouteCustomFormDetail, ChainMiddleware(s.CustomFormDetailHandler(), s.HTMLMiddleWare(RouteCustomFormDetail, s.RequireSession(), s.RequireTenant())...))
	s.RegisterRouteHandler("POST "+RouteCustomFormRestart, ChainMiddleware(s.CustomFormRestartHandler(), s.HTMLMiddleWare(RouteCustomFormRestart, s.RequireSession(), s.RequireTenant())...))
	// edit and add_bank dispatch on method themselves so other methods get a 400 rather than a 405
	s.RegisterRouteHandler(RouteCustomFormEdit, ChainMiddleware(s.CustomFormEditHandler(), s.HTMLMiddleWare(RouteCustomFormEdit, s.RequireSession(), s.RequireTenant())...))
	s.RegisterRouteHandler(RouteCustomFormAddBank, ChainMiddleware(s.CustomFormAddBankHandler(), s.HTMLMiddleWare(RouteCustomFormAddBank, s.RequireSession(), s.RequireTenant())...))

	// API routes
	s.RegisterRouteHandler(RouteAPIStatus, ChainMiddleware(s.StatusHandler(), s.APIMiddleware(RouteAPIStatus)...))
	s.RegisterRouteHandler("GET "+RouteMetrics, metrics.Handler())
}
