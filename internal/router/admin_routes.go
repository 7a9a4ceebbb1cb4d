package router

import (
	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/handler"
	"github.com/matchpoint/court-reservation/internal/middleware"
)

// RegisterAdmin registers the administrator surface: court management,
// slot catalogs, maintenance windows, comments, usage statistics,
// booking oversight and account management.  Every route requires a
// valid access token carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, ac *handler.AdminCourtHandler, ab *handler.AdminBookingHandler,
	au *handler.AdminUserHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	// Courts.
	g.POST("/courts", ac.CreateCourt)
	g.GET("/courts", ac.ListCourts)
	g.PUT("/courts/:id", ac.UpdateCourt)
	g.PATCH("/courts/:id/activation", ac.SetActivation)

	// Slot catalog.
	g.GET("/courts/:id/slots", ac.ListSlots)
	g.POST("/courts/:id/slots", ac.CreateSlot)
	g.DELETE("/courts/:id/slots/:slotID", ac.DeleteSlot)

	// Maintenance windows.
	g.GET("/courts/:id/maintenance", ac.ListMaintenance)
	g.POST("/courts/:id/maintenance", ac.CreateMaintenance)

	// Inspection comments and usage statistics.
	g.GET("/courts/:id/comments", ac.ListComments)
	g.POST("/courts/:id/comments", ac.CreateComment)
	g.GET("/courts/:id/stats", ac.Stats)

	// Booking oversight.
	g.GET("/courts/:id/bookings", ab.ListByCourt)
	g.PATCH("/bookings/:id/status", ab.UpdateStatus)

	// Accounts.
	g.GET("/users", au.ListUsers)
	g.PATCH("/users/:id/membership", au.UpdateMembership)
}
