package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/"

	// Auth Routes - Login & Logout
	RouteLogin    = "/login"
	RouteLogout   = "/logout"
	RouteCallback = "/callback"

	// Signed-in pages
	RouteDashboard = "/dashboard"
	RouteTenant    = "/tenant"

	// Onboarding Routes
	RouteCustomForm        = "/custom_form"
	RouteCustomFormNew     = "/custom_form/new"
	RouteCustomFormEdit    = "/custom_form/edit"
	RouteCustomFormDetail  = "/custom_form/detail"
	RouteCustomFormAddBank = "/custom_form/add_bank"
	RouteCustomFormRestart = "/custom_form/restart"

	// API Routes
	RouteAPIStatus = "/api/v1/status"
	RouteMetrics   = "/metrics"
)
