package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/availability"
	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/repository"
)

// PublicCourtHandler serves the unauthenticated browse surface: the
// court list, court detail and the per-day availability view.  These
// endpoints sit behind the response cache.
type PublicCourtHandler struct {
	Courts      *repository.CourtRepo
	Slots       *repository.SlotRepo
	Maintenance *repository.MaintenanceRepo
	Resolver    *availability.Resolver
}

func NewPublicCourtHandler(courts *repository.CourtRepo, slots *repository.SlotRepo,
	maint *repository.MaintenanceRepo, res *availability.Resolver) *PublicCourtHandler {
	return &PublicCourtHandler{Courts: courts, Slots: slots, Maintenance: maint, Resolver: res}
}

type courtWithMaintenance struct {
	model.Court
	Maintenance []model.MaintenancePeriod `json:"maintenance"`
}

// ListCourts returns all active courts with their maintenance windows
// so clients can show "closed until" banners without extra requests.
func (h *PublicCourtHandler) ListCourts(c echo.Context) error {
	ctx := c.Request().Context()
	courts, err := h.Courts.List(ctx, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list courts failed"})
	}
	out := make([]courtWithMaintenance, 0, len(courts))
	for _, crt := range courts {
		periods, err := h.Maintenance.ListByCourt(ctx, crt.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list maintenance failed"})
		}
		out = append(out, courtWithMaintenance{Court: crt, Maintenance: periods})
	}
	return c.JSON(http.StatusOK, echo.Map{"courts": out})
}

// GetCourt returns one court together with its slot catalog and
// maintenance history.
func (h *PublicCourtHandler) GetCourt(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	ctx := c.Request().Context()
	crt, err := h.Courts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load court failed"})
	}
	slots, err := h.Slots.ListByCourt(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load slots failed"})
	}
	periods, err := h.Maintenance.ListByCourt(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load maintenance failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"court":       crt,
		"slots":       slots,
		"maintenance": periods,
	})
}

// Availability returns the free template slots of a court on the date
// given by the `date` query parameter (YYYY-MM-DD, interpreted as UTC).
// A deactivated court or a date under maintenance yields an empty list,
// not an error.
func (h *PublicCourtHandler) Availability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	slots, err := h.Resolver.AvailableSlots(c.Request().Context(), id, date)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCourtNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		case errors.Is(err, availability.ErrUnavailable):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "availability temporarily unavailable"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"court_id": id,
		"date":     date.Format("2006-01-02"),
		"slots":    slots,
	})
}
