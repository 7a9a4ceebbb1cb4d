package handler

import (
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

// AdminCourtHandler serves the administrator court-management surface:
// court CRUD and activation, the slot catalog, maintenance windows,
// inspection comments and usage statistics.
type AdminCourtHandler struct {
	Courts      *repository.CourtRepo
	Slots       *repository.SlotRepo
	Maintenance *repository.MaintenanceRepo
	Comments    *repository.CommentRepo
	Bookings    *repository.BookingRepo
	Notifier    *notifier.Notifier
	RDB         *redis.Client
	CacheCfg    config.CacheConfig
}

func NewAdminCourtHandler(courts *repository.CourtRepo, slots *repository.SlotRepo,
	maint *repository.MaintenanceRepo, comments *repository.CommentRepo,
	bookings *repository.BookingRepo, n *notifier.Notifier,
	rdb *redis.Client, cacheCfg config.CacheConfig) *AdminCourtHandler {
	return &AdminCourtHandler{
		Courts: courts, Slots: slots, Maintenance: maint, Comments: comments,
		Bookings: bookings, Notifier: n, RDB: rdb, CacheCfg: cacheCfg,
	}
}

var validSurfaces = map[string]bool{
	model.SurfaceClay:      true,
	model.SurfaceHard:      true,
	model.SurfaceGrass:     true,
	model.SurfaceSynthetic: true,
}

type courtReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Surface     string  `json:"surface"`
	Indoor      bool    `json:"indoor"`
}

func (req *courtReq) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Surface = strings.ToUpper(strings.TrimSpace(req.Surface))
	if req.Name == "" {
		return errors.New("name required")
	}
	if !validSurfaces[req.Surface] {
		return errors.New("surface must be CLAY, HARD, GRASS or SYNTHETIC")
	}
	return nil
}

// CreateCourt adds a court.  New courts start active.
func (h *AdminCourtHandler) CreateCourt(c echo.Context) error {
	var req courtReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	crt := model.Court{
		Name: req.Name, Description: req.Description,
		Surface: req.Surface, Indoor: req.Indoor, IsActive: true,
	}
	if err := h.Courts.Create(c.Request().Context(), &crt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create court failed"})
	}
	invalidateCourtCache(c.Request().Context(), h.RDB, h.CacheCfg, crt.ID)
	return c.JSON(http.StatusCreated, crt)
}

// ListCourts returns every court including deactivated ones.
func (h *AdminCourtHandler) ListCourts(c echo.Context) error {
	courts, err := h.Courts.List(c.Request().Context(), false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list courts failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"courts": courts})
}

// UpdateCourt edits display metadata; activation has its own endpoint.
func (h *AdminCourtHandler) UpdateCourt(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	var req courtReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	crt := model.Court{
		ID: id, Name: req.Name, Description: req.Description,
		Surface: req.Surface, Indoor: req.Indoor,
	}
	ctx := c.Request().Context()
	if err := h.Courts.Update(ctx, crt); err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update court failed"})
	}
	updated, err := h.Courts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load court failed"})
	}
	invalidateCourtCache(ctx, h.RDB, h.CacheCfg, id)
	return c.JSON(http.StatusOK, updated)
}

type activationReq struct {
	Active bool `json:"active"`
}

// SetActivation flips a court's global activation flag.  Deactivating a
// court with future PENDING or CONFIRMED bookings publishes a
// court.deactivated event listing every affected member, so the
// notification worker can reach them.  The bookings themselves are left
// untouched; the court being inactive already blocks availability.
func (h *AdminCourtHandler) SetActivation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	var req activationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	crt, err := h.Courts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load court failed"})
	}
	if err := h.Courts.SetActive(ctx, id, req.Active); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update activation failed"})
	}
	invalidateCourtCache(ctx, h.RDB, h.CacheCfg, id)

	affectedCount := 0
	if !req.Active && crt.IsActive {
		affected, err := h.Bookings.ListFutureActiveWithEmails(ctx, id, time.Now().UTC())
		if err != nil {
			log.Printf("court %d: list affected bookings failed: %v", id, err)
		} else if len(affected) > 0 {
			affectedCount = len(affected)
			ev := queue.CourtDeactivatedEvent{
				CourtID:   id,
				CourtName: crt.Name,
				At:        time.Now().UTC().Format(time.RFC3339),
			}
			for _, a := range affected {
				ev.Bookings = append(ev.Bookings, queue.AffectedBooking{
					Reference: a.Reference,
					UserID:    a.UserID,
					UserEmail: a.Email,
					StartsAt:  a.StartTime.UTC().Format(time.RFC3339),
					EndsAt:    a.EndTime.UTC().Format(time.RFC3339),
				})
			}
			if err := h.Notifier.CourtDeactivated(ctx, ev); err != nil {
				log.Printf("court %d: publish deactivation failed: %v", id, err)
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"court_id":          id,
		"active":            req.Active,
		"affected_bookings": affectedCount,
	})
}

type maintenanceReq struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Comment   *string `json:"comment"`
}

// CreateMaintenance records a maintenance window.  Dates are inclusive;
// overlap with existing windows is allowed and acts as a union.
func (h *AdminCourtHandler) CreateMaintenance(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	var req maintenanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
	}
	if end.Before(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date before start_date"})
	}

	ctx := c.Request().Context()
	if _, err := h.Courts.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load court failed"})
	}
	p := model.MaintenancePeriod{CourtID: id, StartDate: start, EndDate: end, Comment: req.Comment}
	if err := h.Maintenance.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create maintenance failed"})
	}
	// Per-date availability entries inside the window age out via the
	// cache TTL; only the court views are dropped eagerly.
	invalidateCourtCache(ctx, h.RDB, h.CacheCfg, id)
	return c.JSON(http.StatusCreated, p)
}

// ListMaintenance returns a court's maintenance windows, newest first.
func (h *AdminCourtHandler) ListMaintenance(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	periods, err := h.Maintenance.ListByCourt(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list maintenance failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"maintenance": periods})
}

type slotReq struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CreateSlot adds a template slot to a court's catalog.  The wall-clock
// pair must be valid and must not overlap an existing slot.
func (h *AdminCourtHandler) CreateSlot(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	var req slotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	start, err := model.ParseClock(req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be HH:MM or HH:MM:SS"})
	}
	end, err := model.ParseClock(req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be HH:MM or HH:MM:SS"})
	}
	if end <= start {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
	}

	ctx := c.Request().Context()
	if _, err := h.Courts.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load court failed"})
	}
	s := model.TemplateSlot{CourtID: id, StartTime: normalizeClock(req.StartTime), EndTime: normalizeClock(req.EndTime)}
	if err := h.Slots.Create(ctx, &s); err != nil {
		if errors.Is(err, repository.ErrSlotOverlap) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot overlaps an existing slot"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create slot failed"})
	}
	invalidateCourtCache(ctx, h.RDB, h.CacheCfg, id)
	return c.JSON(http.StatusCreated, s)
}

// normalizeClock pads "HH:MM" to "HH:MM:SS" so the stored form matches
// what MySQL TIME columns scan back.
func normalizeClock(s string) string {
	if len(s) == 5 {
		return s + ":00"
	}
	return s
}

// ListSlots returns a court's slot catalog ordered by start time.
func (h *AdminCourtHandler) ListSlots(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	slots, err := h.Slots.ListByCourt(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list slots failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"slots": slots})
}

// DeleteSlot removes a template slot.  Existing bookings keep their raw
// timestamps and are unaffected.
func (h *AdminCourtHandler) DeleteSlot(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	slotID, err := pathID(c, "slotID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}
	ctx := c.Request().Context()
	if err := h.Slots.Delete(ctx, id, slotID); err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete slot failed"})
	}
	invalidateCourtCache(ctx, h.RDB, h.CacheCfg, id)
	return c.NoContent(http.StatusNoContent)
}

// Stats returns usage statistics for a court.
func (h *AdminCourtHandler) Stats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Courts.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load court failed"})
	}
	stats, err := h.Courts.Stats(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "compute stats failed"})
	}
	return c.JSON(http.StatusOK, stats)
}

type commentReq struct {
	Comment string `json:"comment"`
}

// CreateComment attaches an inspection note to a court.
func (h *AdminCourtHandler) CreateComment(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Comment) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "comment required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Courts.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load court failed"})
	}
	cm := model.CourtComment{CourtID: id, AuthorID: uid, Comment: strings.TrimSpace(req.Comment)}
	if err := h.Comments.Create(ctx, &cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}
	return c.JSON(http.StatusCreated, cm)
}

// ListComments returns a court's notes, newest first.
func (h *AdminCourtHandler) ListComments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	comments, err := h.Comments.ListByCourt(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list comments failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}
