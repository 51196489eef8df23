package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moviemind/internal/models"
)

const (
	// MaxRecommendations caps every recommendation list.
	MaxRecommendations = 10
	// SectionSize is the number of movies shown per home page section.
	SectionSize = 5
)

// Sources reported alongside a recommendation list.
const (
	SourcePreferences = "preferences"
	SourceMood        = "mood"
	SourceKeyword     = "keyword"
	SourcePerson      = "person"
	SourceSimilar     = "similar"
	SourceTrending    = "trending"
)

var ErrUnknownMood = errors.New("unknown mood")

// Discoverer is the subset of the metadata gateway the builder needs.
type Discoverer interface {
	DiscoverByGenre(ctx context.Context, genreID int) ([]models.Movie, error)
	DiscoverByKeyword(ctx context.Context, keywordID int) ([]models.Movie, error)
	SearchKeywords(ctx context.Context, query string) ([]models.Keyword, error)
	SearchPeople(ctx context.Context, query string, page int) ([]models.Person, error)
	PersonMovies(ctx context.Context, personID int) ([]models.Movie, error)
	SimilarMovies(ctx context.Context, movieID, page int) ([]models.Movie, error)
	TrendingMovies(ctx context.Context) ([]models.Movie, error)
}

// Builder turns preferences, moods and free-text hints into movie lists.
// It does no ranking: lists are concatenated in call order and truncated.
type Builder struct {
	gw Discoverer
}

func NewBuilder(gw Discoverer) *Builder {
	return &Builder{gw: gw}
}

// ForPreferences issues one discovery call per preferred genre, in the order
// of the preference list. An empty or unmappable genre list makes no calls.
func (b *Builder) ForPreferences(ctx context.Context, prefs models.UserPreferences) []models.Movie {
	return b.byGenres(ctx, GenreIDs(prefs.PreferredGenres))
}

// ForMood issues one discovery call per genre mapped to the mood.
func (b *Builder) ForMood(ctx context.Context, mood string) ([]models.Movie, error) {
	ids, ok := MoodGenreIDs(mood)
	if !ok {
		return []models.Movie{}, fmt.Errorf("%w: %q", ErrUnknownMood, mood)
	}
	return b.byGenres(ctx, ids), nil
}

// byGenres concatenates per-genre results. A failed call contributes nothing.
func (b *Builder) byGenres(ctx context.Context, genreIDs []int) []models.Movie {
	movies := make([]models.Movie, 0, MaxRecommendations)
	for _, id := range genreIDs {
		batch, err := b.gw.DiscoverByGenre(ctx, id)
		if err != nil {
			slog.Warn("genre discovery failed, skipping", "genre_id", id, "error", err)
			continue
		}
		movies = append(movies, batch...)
	}
	return limit(movies)
}

// ForKeyword resolves the query to its first keyword hit and discovers
// movies tagged with it. No hit yields an empty list.
func (b *Builder) ForKeyword(ctx context.Context, query string) ([]models.Movie, error) {
	keywords, err := b.gw.SearchKeywords(ctx, query)
	if err != nil {
		return []models.Movie{}, fmt.Errorf("search keywords: %w", err)
	}
	if len(keywords) == 0 {
		return []models.Movie{}, nil
	}
	movies, err := b.gw.DiscoverByKeyword(ctx, keywords[0].ID)
	if err != nil {
		return []models.Movie{}, fmt.Errorf("discover by keyword %d: %w", keywords[0].ID, err)
	}
	return limit(movies), nil
}

// ForPerson resolves the query to its first person hit and returns the
// movies they appeared in.
func (b *Builder) ForPerson(ctx context.Context, query string) ([]models.Movie, error) {
	people, err := b.gw.SearchPeople(ctx, query, 1)
	if err != nil {
		return []models.Movie{}, fmt.Errorf("search people: %w", err)
	}
	if len(people) == 0 {
		return []models.Movie{}, nil
	}
	movies, err := b.gw.PersonMovies(ctx, people[0].ID)
	if err != nil {
		return []models.Movie{}, fmt.Errorf("person movies %d: %w", people[0].ID, err)
	}
	return limit(movies), nil
}

func (b *Builder) Similar(ctx context.Context, movieID int) ([]models.Movie, error) {
	movies, err := b.gw.SimilarMovies(ctx, movieID, 1)
	if err != nil {
		return []models.Movie{}, err
	}
	return limit(movies), nil
}

func (b *Builder) Trending(ctx context.Context) ([]models.Movie, error) {
	movies, err := b.gw.TrendingMovies(ctx)
	if err != nil {
		return []models.Movie{}, err
	}
	return limit(movies), nil
}

func limit(movies []models.Movie) []models.Movie {
	if movies == nil {
		return []models.Movie{}
	}
	if len(movies) > MaxRecommendations {
		return movies[:MaxRecommendations]
	}
	return movies
}

// Section truncates a list to SectionSize for the home page.
func Section(movies []models.Movie) []models.Movie {
	if len(movies) > SectionSize {
		return movies[:SectionSize]
	}
	if movies == nil {
		return []models.Movie{}
	}
	return movies
}
