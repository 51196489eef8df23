package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"moviemind/internal/middleware"
	"moviemind/internal/models"
	"moviemind/internal/recommend"
)

func (h *Handler) GetPreferences(c fiber.Ctx) error {
	prefs, err := h.prefs.Load(c.Context(), middleware.SessionFrom(c))
	if err != nil {
		slog.Error("failed to load preferences", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load preferences"})
	}
	return c.JSON(prefs)
}

// SetPreferences overwrites the caller's preferences.
// @Summary Save preferences
// @Tags preferences
// @Accept json
// @Produce json
// @Param body body models.SetPreferenceRequest true "Preferences"
// @Success 200 {object} models.UserPreferences
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /preferences [put]
func (h *Handler) SetPreferences(c fiber.Ctx) error {
	var req models.SetPreferenceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := validateStruct(req); msg != "" {
		return badRequest(c, msg)
	}

	prefs := req.Preferences()
	if err := h.prefs.Save(c.Context(), middleware.SessionFrom(c), prefs); err != nil {
		slog.Error("failed to save preferences", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to save preferences"})
	}
	return c.JSON(prefs)
}

// PreferenceGenres lists the genre labels the recommendation builder understands.
func (h *Handler) PreferenceGenres(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"genres": recommend.GenreMap})
}

// Favorites lists the account's favorite movies. Authenticated sessions only.
func (h *Handler) Favorites(c fiber.Ctx) error {
	sc := middleware.SessionFrom(c)
	if !sc.Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "login required"})
	}
	p := page(c)
	movies, err := h.gw.FavoriteMovies(c.Context(), sc.SessionID, p)
	if err != nil {
		return gatewayError(c, "favorites", err)
	}
	return c.JSON(movieList(movies, p))
}

func (h *Handler) AddFavorite(c fiber.Ctx) error {
	sc := middleware.SessionFrom(c)
	if !sc.Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "login required"})
	}

	var req models.FavoriteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := validateStruct(req); msg != "" {
		return badRequest(c, msg)
	}

	if err := h.gw.AddFavorite(c.Context(), sc.SessionID, req.MovieID); err != nil {
		return gatewayError(c, "movie", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movie_id": req.MovieID, "favorite": true})
}
