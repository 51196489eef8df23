package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"

	"moviemind/internal/middleware"
	"moviemind/internal/models"
	"moviemind/internal/recommend"
	"moviemind/internal/session"
)

// Recommendations returns genre-based picks for the caller's preferences,
// falling back to trending movies when they yield nothing.
// @Summary Personalized recommendations
// @Tags recommendations
// @Produce json
// @Success 200 {object} models.RecommendationResponse
// @Router /recommendations [get]
func (h *Handler) Recommendations(c fiber.Ctx) error {
	resp, err := h.personalized(c.Context(), middleware.SessionFrom(c))
	if err != nil {
		return gatewayError(c, "recommendations", err)
	}
	return c.JSON(resp)
}

// personalized only fails when the trending fallback fails too.
func (h *Handler) personalized(ctx context.Context, sc *session.Context) (models.RecommendationResponse, error) {
	prefs, err := h.prefs.Load(ctx, sc)
	if err != nil {
		slog.Warn("could not load preferences, using defaults", "error", err)
	}

	movies := h.builder.ForPreferences(ctx, prefs)
	if len(movies) > 0 {
		return models.RecommendationResponse{Source: recommend.SourcePreferences, Recommendations: movies}, nil
	}

	trending, err := h.builder.Trending(ctx)
	if err != nil {
		return models.RecommendationResponse{}, err
	}
	return models.RecommendationResponse{
		Source:          recommend.SourceTrending,
		Fallback:        true,
		Recommendations: trending,
	}, nil
}

func (h *Handler) Moods(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"moods": recommend.Moods()})
}

// MoodRecommendations returns picks for a mood label.
// @Summary Mood recommendations
// @Tags recommendations
// @Produce json
// @Param mood path string true "Mood label"
// @Success 200 {object} models.RecommendationResponse
// @Failure 400 {object} ErrorResponse
// @Router /recommendations/mood/{mood} [get]
func (h *Handler) MoodRecommendations(c fiber.Ctx) error {
	mood, err := url.PathUnescape(c.Params("mood"))
	if err != nil {
		return badRequest(c, "invalid mood")
	}
	movies, err := h.builder.ForMood(c.Context(), mood)
	if errors.Is(err, recommend.ErrUnknownMood) {
		return badRequest(c, "unknown mood")
	}
	if err != nil {
		return gatewayError(c, "mood recommendations", err)
	}
	return c.JSON(models.RecommendationResponse{Source: recommend.SourceMood, Recommendations: movies})
}

func (h *Handler) KeywordRecommendations(c fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return badRequest(c, "query parameter q is required")
	}
	movies, err := h.builder.ForKeyword(c.Context(), query)
	if err != nil {
		return gatewayError(c, "keyword recommendations", err)
	}
	return c.JSON(models.RecommendationResponse{Source: recommend.SourceKeyword, Recommendations: movies})
}

func (h *Handler) PersonRecommendations(c fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return badRequest(c, "query parameter q is required")
	}
	movies, err := h.builder.ForPerson(c.Context(), query)
	if err != nil {
		return gatewayError(c, "person recommendations", err)
	}
	return c.JSON(models.RecommendationResponse{Source: recommend.SourcePerson, Recommendations: movies})
}

func (h *Handler) SimilarRecommendations(c fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "invalid movie ID")
	}
	movies, err := h.builder.Similar(c.Context(), id)
	if err != nil {
		return gatewayError(c, "movie", err)
	}
	return c.JSON(models.RecommendationResponse{Source: recommend.SourceSimilar, Recommendations: movies})
}

// Narrative builds a prompt from the caller's preferences and returns the
// generated recommendation text.
// @Summary Narrative recommendation
// @Tags recommendations
// @Accept json
// @Produce json
// @Param body body models.NarrativeRequest true "Additional info"
// @Success 200 {object} models.NarrativeResponse
// @Failure 503 {object} ErrorResponse
// @Router /recommendations/narrative [post]
func (h *Handler) Narrative(c fiber.Ctx) error {
	var req models.NarrativeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := validateStruct(req); msg != "" {
		return badRequest(c, msg)
	}
	if !h.textgen.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "text generation not configured"})
	}

	ctx := c.Context()
	prefs, err := h.prefs.Load(ctx, middleware.SessionFrom(c))
	if err != nil {
		slog.Warn("could not load preferences, using defaults", "error", err)
	}

	prompt := recommend.BuildPrompt(prefs, req.AdditionalInfo)
	text, err := h.textgen.Generate(ctx, prompt)
	if err != nil {
		slog.Error("text generation failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: msgUpstream})
	}
	return c.JSON(models.NarrativeResponse{Prompt: prompt, Narrative: text})
}

// Home assembles the landing page sections. A failing section renders empty.
// @Summary Home page sections
// @Tags home
// @Produce json
// @Success 200 {array} models.HomeSection
// @Router /home [get]
func (h *Handler) Home(c fiber.Ctx) error {
	ctx := c.Context()

	trending, err := h.gw.TrendingMovies(ctx)
	if err != nil {
		slog.Warn("home section failed", "section", "trending", "error", err)
	}
	sections := []models.HomeSection{
		{Key: "trending", Title: "이번 주 트렌딩", Movies: recommend.Section(trending)},
	}

	categories := []struct{ key, title string }{
		{"popular", "인기 영화"},
		{"now_playing", "현재 상영작"},
		{"top_rated", "최고 평점"},
	}
	for _, cat := range categories {
		movies, err := h.gw.MoviesByCategory(ctx, cat.key)
		if err != nil {
			slog.Warn("home section failed", "section", cat.key, "error", err)
		}
		sections = append(sections, models.HomeSection{Key: cat.key, Title: cat.title, Movies: recommend.Section(movies)})
	}

	recommended, err := h.personalized(ctx, middleware.SessionFrom(c))
	if err != nil {
		slog.Warn("home section failed", "section", "recommended", "error", err)
	}
	sections = append(sections, models.HomeSection{
		Key:    "recommended",
		Title:  "맞춤 추천",
		Movies: recommend.Section(recommended.Recommendations),
	})

	return c.JSON(fiber.Map{"sections": sections})
}
