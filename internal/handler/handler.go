package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"moviemind/internal/models"
	"moviemind/internal/preferences"
	"moviemind/internal/recommend"
	"moviemind/internal/session"
	"moviemind/internal/tmdb"
)

// msgUpstream is shown for every metadata API failure. Upstream error text
// never reaches the client.
const msgUpstream = "could not load, try again later"

// Gateway is the metadata API surface used by the handlers.
type Gateway interface {
	recommend.Discoverer

	MovieDetails(ctx context.Context, movieID int) (models.MovieDetail, error)
	MovieCredits(ctx context.Context, movieID int) (models.Credits, error)
	RecommendedMovies(ctx context.Context, movieID int) ([]models.Movie, error)
	MoviesByCategory(ctx context.Context, category string) ([]models.Movie, error)
	DiscoverByGenres(ctx context.Context, genreIDs []int) ([]models.Movie, error)
	Reviews(ctx context.Context, movieID, page int) ([]models.Review, error)
	TrendingTV(ctx context.Context) ([]models.TVShow, error)
	TrendingPeople(ctx context.Context) ([]models.Person, error)
	Genres(ctx context.Context) ([]models.Genre, error)
	SearchMovies(ctx context.Context, query string, page int) ([]models.Movie, error)
	AddFavorite(ctx context.Context, sessionID string, movieID int) error
	FavoriteMovies(ctx context.Context, sessionID string, page int) ([]models.Movie, error)
}

// Generator produces free text from a prompt.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// Handler serves the MovieMind JSON API.
type Handler struct {
	gw       Gateway
	builder  *recommend.Builder
	sessions *session.Manager
	prefs    *preferences.Store
	textgen  Generator
}

// New creates a Handler.
func New(gw Gateway, sessions *session.Manager, prefs *preferences.Store, textgen Generator) *Handler {
	return &Handler{
		gw:       gw,
		builder:  recommend.NewBuilder(gw),
		sessions: sessions,
		prefs:    prefs,
		textgen:  textgen,
	}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Register mounts every route on the /api/v1 group.
func (h *Handler) Register(api fiber.Router) {
	api.Get("/health", h.Health)

	auth := api.Group("/auth")
	auth.Post("/login", h.BeginLogin)
	auth.Post("/login/complete", h.CompleteLogin)
	auth.Post("/guest", h.StartGuest)
	auth.Post("/logout", h.Logout)
	auth.Get("/status", h.AuthStatus)

	api.Get("/home", h.Home)

	api.Get("/movies/trending", h.TrendingMovies)
	api.Get("/movies/category/:category", h.MoviesByCategory)
	api.Get("/movies/:id", h.MovieDetail)
	api.Get("/movies/:id/credits", h.MovieCredits)
	api.Get("/movies/:id/similar", h.SimilarMovies)
	api.Get("/movies/:id/recommendations", h.RecommendedMovies)
	api.Get("/movies/:id/reviews", h.MovieReviews)
	api.Get("/tv/trending", h.TrendingTV)
	api.Get("/people/trending", h.TrendingPeople)
	api.Get("/people/:id/movies", h.PersonMovies)
	api.Get("/genres", h.Genres)
	api.Get("/genres/movies", h.CombinedGenreMovies)
	api.Get("/genres/:id/movies", h.GenreMovies)
	api.Get("/keywords/:id/movies", h.KeywordMovies)
	api.Get("/search", h.Search)

	api.Get("/preferences", h.GetPreferences)
	api.Put("/preferences", h.SetPreferences)
	api.Get("/preferences/genres", h.PreferenceGenres)

	recs := api.Group("/recommendations")
	recs.Get("/", h.Recommendations)
	recs.Get("/moods", h.Moods)
	recs.Get("/mood/:mood", h.MoodRecommendations)
	recs.Get("/keyword", h.KeywordRecommendations)
	recs.Get("/person", h.PersonRecommendations)
	recs.Get("/similar/:id", h.SimilarRecommendations)
	recs.Post("/narrative", h.Narrative)

	api.Get("/favorites", h.Favorites)
	api.Post("/favorites", h.AddFavorite)
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "moviemind",
	})
}

// gatewayError maps a classified metadata failure to a response.
func gatewayError(c fiber.Ctx, what string, err error) error {
	if errors.Is(err, tmdb.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: what + " not found"})
	}
	slog.Error("metadata request failed", "what", what, "error", err)
	return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: msgUpstream})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
}

// intParam parses a positive integer path parameter.
func intParam(c fiber.Ctx, name string) (int, bool) {
	id := fiber.Params[int](c, name)
	return id, id > 0
}

func page(c fiber.Ctx) int {
	p := fiber.Query(c, "page", 1)
	if p < 1 {
		return 1
	}
	return p
}

func movieList(movies []models.Movie, page int) models.MovieListResponse {
	if movies == nil {
		movies = []models.Movie{}
	}
	return models.MovieListResponse{Page: page, Movies: movies}
}
