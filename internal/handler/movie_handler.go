package handler

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"moviemind/internal/models"
	"moviemind/internal/tmdb"
)

// TrendingMovies returns this week's trending movies.
// @Summary Trending movies
// @Tags movies
// @Produce json
// @Success 200 {object} models.MovieListResponse
// @Failure 502 {object} ErrorResponse
// @Router /movies/trending [get]
func (h *Handler) TrendingMovies(c fiber.Ctx) error {
	movies, err := h.gw.TrendingMovies(c.Context())
	if err != nil {
		return gatewayError(c, "trending movies", err)
	}
	return c.JSON(movieList(movies, 0))
}

// MoviesByCategory returns one of the fixed lists.
// @Summary Movies by category
// @Tags movies
// @Produce json
// @Param category path string true "Category" Enums(popular,now_playing,top_rated,upcoming)
// @Success 200 {object} models.MovieListResponse
// @Failure 400 {object} ErrorResponse
// @Router /movies/category/{category} [get]
func (h *Handler) MoviesByCategory(c fiber.Ctx) error {
	category := c.Params("category")
	if !tmdb.Categories[category] {
		return badRequest(c, "unknown category")
	}
	movies, err := h.gw.MoviesByCategory(c.Context(), category)
	if err != nil {
		return gatewayError(c, "movie category", err)
	}
	return c.JSON(movieList(movies, 0))
}

// MovieDetail returns detailed info for a single movie.
// @Summary Get movie detail
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} models.MovieDetail
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /movies/{id} [get]
func (h *Handler) MovieDetail(c fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "invalid movie ID")
	}
	detail, err := h.gw.MovieDetails(c.Context(), id)
	if err != nil {
		return gatewayError(c, "movie", err)
	}
	return c.JSON(detail)
}

func (h *Handler) MovieCredits(c fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "invalid movie ID")
	}
	credits, err := h.gw.MovieCredits(c.Context(), id)
	if err != nil {
		return gatewayError(c, "movie", err)
	}
	return c.JSON(credits)
}

func (h *Handler) SimilarMovies(c fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "invalid movie ID")
	}
	p := page(c)
	movies, err := h.gw.SimilarMovies(c.Context(), id, p)
	if err != nil {
		return gatewayError(c, "movie", err)
	}
	return c.JSON(movieList(movies, p))
}

// RecommendedMovies lists TMDB's own picks for a movie, unlike the
// genre-driven lists under /recommendations.
func (h *Handler) RecommendedMovies(c fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "invalid movie ID")
	}
	movies, err := h.gw.RecommendedMovies(c.Context(), id)
	if err != nil {
		return gatewayError(c, "movie", err)
	}
	return c.JSON(movieList(movies, 0))
}

func (h *Handler) MovieReviews(c fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "invalid movie ID")
	}
	p := page(c)
	reviews, err := h.gw.Reviews(c.Context(), id, p)
	if err != nil {
		return gatewayError(c, "movie", err)
	}
	return c.JSON(fiber.Map{"page": p, "reviews": reviews})
}

func (h *Handler) TrendingTV(c fiber.Ctx) error {
	shows, err := h.gw.TrendingTV(c.Context())
	if err != nil {
		return gatewayError(c, "trending tv", err)
	}
	return c.JSON(fiber.Map{"shows": shows})
}

func (h *Handler) TrendingPeople(c fiber.Ctx) error {
	people, err := h.gw.TrendingPeople(c.Context())
	if err != nil {
		return gatewayError(c, "trending people", err)
	}
	return c.JSON(fiber.Map{"people": people})
}

func (h *Handler) PersonMovies(c fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "invalid person ID")
	}
	movies, err := h.gw.PersonMovies(c.Context(), id)
	if err != nil {
		return gatewayError(c, "person", err)
	}
	return c.JSON(movieList(movies, 0))
}

func (h *Handler) Genres(c fiber.Ctx) error {
	genres, err := h.gw.Genres(c.Context())
	if err != nil {
		return gatewayError(c, "genres", err)
	}
	return c.JSON(fiber.Map{"genres": genres})
}

func (h *Handler) GenreMovies(c fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "invalid genre ID")
	}
	movies, err := h.gw.DiscoverByGenre(c.Context(), id)
	if err != nil {
		return gatewayError(c, "genre", err)
	}
	return c.JSON(movieList(movies, 0))
}

// CombinedGenreMovies lists movies matching every genre in ?ids=28,12.
func (h *Handler) CombinedGenreMovies(c fiber.Ctx) error {
	var ids []int
	for _, part := range strings.Split(c.Query("ids"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return badRequest(c, "invalid genre ID: "+part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return badRequest(c, "query parameter ids is required")
	}

	movies, err := h.gw.DiscoverByGenres(c.Context(), ids)
	if err != nil {
		return gatewayError(c, "genre", err)
	}
	return c.JSON(movieList(movies, 0))
}

func (h *Handler) KeywordMovies(c fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "invalid keyword ID")
	}
	movies, err := h.gw.DiscoverByKeyword(c.Context(), id)
	if err != nil {
		return gatewayError(c, "keyword", err)
	}
	return c.JSON(movieList(movies, 0))
}

// Search queries movies, people and keywords. A failing part is returned
// empty so the other parts still render.
// @Summary Search
// @Tags search
// @Produce json
// @Param q query string true "Query"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} models.SearchResponse
// @Failure 400 {object} ErrorResponse
// @Router /search [get]
func (h *Handler) Search(c fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return badRequest(c, "query parameter q is required")
	}
	ctx := c.Context()
	p := page(c)

	movies, err := h.gw.SearchMovies(ctx, query, p)
	if err != nil {
		slog.Warn("movie search failed", "error", err)
	}
	people, err := h.gw.SearchPeople(ctx, query, p)
	if err != nil {
		slog.Warn("people search failed", "error", err)
	}
	keywords, err := h.gw.SearchKeywords(ctx, query)
	if err != nil {
		slog.Warn("keyword search failed", "error", err)
	}

	return c.JSON(models.SearchResponse{
		Query:    query,
		Movies:   orEmpty(movies),
		People:   orEmpty(people),
		Keywords: orEmpty(keywords),
	})
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
