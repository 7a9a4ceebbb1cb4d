package router

import (
	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/handler"
	"github.com/matchpoint/court-reservation/internal/middleware"
)

// RegisterMember registers the booking endpoints available to
// authenticated members (admins may use them too).  Every write goes
// through the availability resolver inside the handler.
func RegisterMember(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("MEMBER", "ADMIN"))

	g.POST("", b.Create)
	g.GET("", b.MyBookings)
	g.GET("/:id", b.Get)
	g.POST("/:id/cancel", b.Cancel)
}
