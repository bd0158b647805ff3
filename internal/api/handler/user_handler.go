package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/api/metrics"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/ports"
)

// UserHandler exposes account administration.
type UserHandler struct {
	service ports.UserService
	metrics *metrics.Metrics
}

func NewUserHandler(service ports.UserService, m *metrics.Metrics) *UserHandler {
	return &UserHandler{service: service, metrics: m}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	users, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Stats handles GET /users/stats.
//
// @Summary      User statistics
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UserStats
// @Failure      403  {object}  errorResponse
// @Router       /users/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Stats(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Get handles GET /users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateRole handles PUT /users/:id/role.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateRole(c.Request().Context(), actor, c.Param("id"), domain.Role(req.Role))
	h.metrics.AdminActionsTotal.WithLabelValues("update_role", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ToggleStatus handles PUT /users/:id/status.
//
// @Summary      Activate or deactivate a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /users/{id}/status [put]
func (h *UserHandler) ToggleStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	user, err := h.service.ToggleStatus(c.Request().Context(), actor, c.Param("id"))
	h.metrics.AdminActionsTotal.WithLabelValues("toggle_status", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
