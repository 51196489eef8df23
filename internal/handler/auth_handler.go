package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"moviemind/internal/metrics"
	"moviemind/internal/middleware"
	"moviemind/internal/models"
	"moviemind/internal/session"
)

// BeginLogin starts the TMDB approval flow.
// @Summary Begin login
// @Tags auth
// @Produce json
// @Success 200 {object} models.LoginResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /auth/login [post]
func (h *Handler) BeginLogin(c fiber.Ctx) error {
	sc := middleware.SessionFrom(c)
	authURL, err := h.sessions.BeginLogin(c.Context(), sc)
	metrics.ObserveAuth("begin_login", err)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(models.LoginResponse{AuthURL: authURL, State: string(sc.State)})
}

// CompleteLogin exchanges the approved token for a session.
// @Summary Complete login
// @Tags auth
// @Produce json
// @Success 200 {object} models.AuthStatusResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login/complete [post]
func (h *Handler) CompleteLogin(c fiber.Ctx) error {
	sc := middleware.SessionFrom(c)
	err := h.sessions.CompleteLogin(c.Context(), sc)
	metrics.ObserveAuth("complete_login", err)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(status(sc))
}

func (h *Handler) StartGuest(c fiber.Ctx) error {
	sc := middleware.SessionFrom(c)
	err := h.sessions.StartGuest(c.Context(), sc)
	metrics.ObserveAuth("guest", err)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(status(sc))
}

func (h *Handler) Logout(c fiber.Ctx) error {
	sc := middleware.SessionFrom(c)
	h.sessions.Logout(c.Context(), sc)
	metrics.ObserveAuth("logout", nil)
	return c.JSON(status(sc))
}

func (h *Handler) AuthStatus(c fiber.Ctx) error {
	return c.JSON(status(middleware.SessionFrom(c)))
}

func status(sc *session.Context) models.AuthStatusResponse {
	return models.AuthStatusResponse{
		State:         string(sc.State),
		Authenticated: sc.Authenticated(),
		Guest:         sc.Guest(),
	}
}

func authError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrNoSession):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: err.Error()})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: msgUpstream})
	}
}
