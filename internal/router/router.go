package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/matchpoint/court-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/matchpoint/court-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Session management: register, login, refresh rotation and logout.
	// None of these require an existing access token.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a bearer token (revokes every session) or a
	// refresh_token body (revokes that one session).
	g.POST("/logout", a.Logout)

	// Profile endpoint for any authenticated account.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "MEMBER"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: court
// list, court detail and per-day availability.  The caller passes the
// response-cache middleware so these read-mostly endpoints are served
// from Redis when possible.
func RegisterPublic(e *echo.Echo, p *handler.PublicCourtHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/courts", cache)
	g.GET("", p.ListCourts)
	g.GET("/:id", p.GetCourt)
	// Availability for one court on one date (?date=YYYY-MM-DD).  Cached
	// under the concrete URI; write handlers invalidate the exact keys.
	g.GET("/:id/availability", p.Availability)
}
