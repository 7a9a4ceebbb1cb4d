package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/repository"
)

// AdminUserHandler lets administrators review accounts and manage
// membership statuses.
type AdminUserHandler struct {
	Users *repository.UserRepo
}

func NewAdminUserHandler(users *repository.UserRepo) *AdminUserHandler {
	return &AdminUserHandler{Users: users}
}

// ListUsers returns all accounts, newest first.
func (h *AdminUserHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

var validMemberships = map[string]bool{
	model.MembershipActive:   true,
	model.MembershipInactive: true,
	model.MembershipPending:  true,
}

type membershipReq struct {
	Status string `json:"status"`
}

// UpdateMembership sets a user's membership status.
func (h *AdminUserHandler) UpdateMembership(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req membershipReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !validMemberships[status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be ACTIVE, INACTIVE or PENDING"})
	}
	if err := h.Users.UpdateMembership(c.Request().Context(), id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update membership failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": id, "membership_status": status})
}
