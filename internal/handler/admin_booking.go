package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/matchpoint/court-reservation/internal/config"
	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/queue"
	"github.com/matchpoint/court-reservation/internal/repository"
	notifier "github.com/matchpoint/court-reservation/internal/service"
)

// AdminBookingHandler lets administrators inspect a court's ledger and
// drive booking status transitions (confirm, cancel).
type AdminBookingHandler struct {
	Bookings *repository.BookingRepo
	Courts   *repository.CourtRepo
	Users    *repository.UserRepo
	Notifier *notifier.Notifier
	RDB      *redis.Client
	CacheCfg config.CacheConfig
}

func NewAdminBookingHandler(bookings *repository.BookingRepo, courts *repository.CourtRepo,
	users *repository.UserRepo, n *notifier.Notifier,
	rdb *redis.Client, cacheCfg config.CacheConfig) *AdminBookingHandler {
	return &AdminBookingHandler{
		Bookings: bookings, Courts: courts, Users: users,
		Notifier: n, RDB: rdb, CacheCfg: cacheCfg,
	}
}

// ListByCourt returns a court's bookings within [from, to), any status.
// Defaults to the 30 days starting today when the query is absent.
func (h *AdminBookingHandler) ListByCourt(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(30 * 24 * time.Hour)
	if s := c.QueryParam("from"); s != "" {
		if from, err = parseDate(s); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
		}
	}
	if s := c.QueryParam("to"); s != "" {
		if to, err = parseDate(s); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
		}
	}
	if !from.Before(to) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be before to"})
	}

	ctx := c.Request().Context()
	if _, err := h.Courts.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load court failed"})
	}
	bookings, err := h.Bookings.ListByCourt(ctx, id, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	views := make([]echo.Map, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, echo.Map{
			"booking":        b,
			"display_status": b.DisplayStatus(now),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"court_id": id, "bookings": views})
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus applies a status transition.  Only CONFIRMED and
// CANCELLED are accepted targets; the state machine rejects everything
// else with 409.  Transitions publish a notification event.
func (h *AdminBookingHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target := strings.ToUpper(strings.TrimSpace(req.Status))
	if target != model.StatusConfirmed && target != model.StatusCancelled {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be CONFIRMED or CANCELLED"})
	}

	ctx := c.Request().Context()
	b, err := h.Bookings.UpdateStatus(ctx, id, target)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrInvalidTransition):
			return c.JSON(http.StatusConflict, echo.Map{"error": "status transition not allowed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
		}
	}

	if target == model.StatusCancelled {
		// Cancellation frees the range: drop the stale availability views.
		invalidateCourtCache(ctx, h.RDB, h.CacheCfg, b.CourtID, bookingDates(b.StartTime, b.EndTime)...)
	}
	eventType := queue.TypeBookingConfirmed
	if target == model.StatusCancelled {
		eventType = queue.TypeBookingCancelled
	}
	h.publishBookingEvent(ctx, eventType, b)

	return c.JSON(http.StatusOK, b)
}

func (h *AdminBookingHandler) publishBookingEvent(ctx context.Context, eventType string, b model.Booking) {
	ev := queue.BookingEvent{
		Reference: b.Reference,
		BookingID: b.ID,
		UserID:    b.UserID,
		CourtID:   b.CourtID,
		StartsAt:  b.StartTime.UTC().Format(time.RFC3339),
		EndsAt:    b.EndTime.UTC().Format(time.RFC3339),
		Status:    b.Status,
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
