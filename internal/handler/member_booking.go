package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/matchpoint/court-reservation/internal/availability"
	"github.com/matchpoint/court-reservation/internal/config"
	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/queue"
	"github.com/matchpoint/court-reservation/internal/repository"
	notifier "github.com/matchpoint/court-reservation/internal/service"
)

// BookingHandler serves the member booking surface.  All writes funnel
// through the availability resolver so activation and maintenance
// precedence are enforced on every path; the handler never talks to the
// ledger's write side directly.
type BookingHandler struct {
	Resolver *availability.Resolver
	Bookings *repository.BookingRepo
	Courts   *repository.CourtRepo
	Users    *repository.UserRepo
	Notifier *notifier.Notifier
	RDB      *redis.Client
	CacheCfg config.CacheConfig
}

func NewBookingHandler(res *availability.Resolver, bookings *repository.BookingRepo,
	courts *repository.CourtRepo, users *repository.UserRepo,
	n *notifier.Notifier, rdb *redis.Client, cacheCfg config.CacheConfig) *BookingHandler {
	return &BookingHandler{
		Resolver: res, Bookings: bookings, Courts: courts, Users: users,
		Notifier: n, RDB: rdb, CacheCfg: cacheCfg,
	}
}

type createBookingReq struct {
	CourtID   uint64    `json:"court_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Create places a booking for the authenticated member.  The resolver
// decides; this handler only translates its verdict into HTTP.  A lost
// race against a concurrent overlapping request surfaces as 409.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CourtID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "court_id required"})
	}

	b, err := h.Resolver.CreateBooking(c.Request().Context(), uid, req.CourtID, req.StartTime, req.EndTime)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidRange):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be before end_time"})
		case errors.Is(err, repository.ErrCourtNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		case errors.Is(err, availability.ErrCourtInactive):
			return c.JSON(http.StatusConflict, echo.Map{"error": "court is deactivated"})
		case errors.Is(err, availability.ErrUnderMaintenance):
			return c.JSON(http.StatusConflict, echo.Map{"error": "court is under maintenance on that date"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "time range already booked"})
		case errors.Is(err, availability.ErrUnavailable):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "booking temporarily unavailable"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
		}
	}

	invalidateCourtCache(c.Request().Context(), h.RDB, h.CacheCfg, b.CourtID,
		bookingDates(b.StartTime, b.EndTime)...)
	return c.JSON(http.StatusCreated, b)
}

type bookingView struct {
	repository.BookingDetail
	DisplayStatus string `json:"display_status"`
}

// MyBookings lists the member's bookings with court names, newest
// first.  A confirmed booking whose end has passed reads as COMPLETED.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Bookings.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	now := time.Now().UTC()
	views := make([]bookingView, 0, len(details))
	for _, d := range details {
		views = append(views, bookingView{BookingDetail: d, DisplayStatus: d.DisplayStatus(now)})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": views})
}

// Get returns one booking.  Members see only their own; admins see all.
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if b.UserID != uid && c.Get("role") != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking":        b,
		"display_status": b.DisplayStatus(time.Now().UTC()),
	})
}

// Cancel cancels the member's booking, immediately freeing the range.
// Cancelling twice is a no-op.  A cancellation event is published so
// the notification worker can confirm it to the member.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if b.UserID != uid && c.Get("role") != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	alreadyCancelled := b.Status == model.StatusCancelled
	if err := h.Bookings.Cancel(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	invalidateCourtCache(ctx, h.RDB, h.CacheCfg, b.CourtID, bookingDates(b.StartTime, b.EndTime)...)
	if !alreadyCancelled {
		h.publishBookingEvent(ctx, queue.TypeBookingCancelled, b, model.StatusCancelled)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.StatusCancelled, "reference": b.Reference})
}

// publishBookingEvent enriches the booking with user email and court
// name and hands it to the notifier.  Failures are logged only; the
// state change has already committed.
func (h *BookingHandler) publishBookingEvent(ctx context.Context, eventType string, b model.Booking, status string) {
	ev := queue.BookingEvent{
		Reference: b.Reference,
		BookingID: b.ID,
		UserID:    b.UserID,
		CourtID:   b.CourtID,
		StartsAt:  b.StartTime.UTC().Format(time.RFC3339),
		EndsAt:    b.EndTime.UTC().Format(time.RFC3339),
		Status:    status,
		At:        time.Now().UTC().Format(time.RFC3339),
	}
	if u, err := h.Users.GetByID(ctx, b.UserID); err == nil {
		ev.UserEmail = u.Email
	}
	if crt, err := h.Courts.GetByID(ctx, b.CourtID); err == nil {
		ev.CourtName = crt.Name
	}
	if err := h.Notifier.BookingStatusChanged(ctx, eventType, ev); err != nil {
		log.Printf("booking %d: publish %s failed: %v", b.ID, eventType, err)
	}
}
