package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"moviemind/internal/models"
)

// detailCastLimit caps the cast names carried on a detail record.
const detailCastLimit = 10

// Categories accepted by MoviesByCategory.
var Categories = map[string]bool{
	"popular":     true,
	"now_playing": true,
	"top_rated":   true,
	"upcoming":    true,
}

// MovieDetails fetches a single movie with credits appended. When the
// localized overview is empty it falls back to the movie's translation.
func (c *Client) MovieDetails(ctx context.Context, movieID int) (models.MovieDetail, error) {
	var raw RawMovie
	params := c.localized(url.Values{"append_to_response": {"credits"}})
	if err := c.get(ctx, "movie details", fmt.Sprintf("/movie/%d", movieID), params, &raw); err != nil {
		return models.MovieDetail{}, err
	}

	if raw.Overview == "" || raw.Title == "" {
		if tr, err := c.Translation(ctx, movieID); err == nil {
			if raw.Title == "" {
				raw.Title = tr.Title
			}
			if raw.Overview == "" {
				raw.Overview = tr.Overview
			}
		}
	}

	detail := c.format.Detail(raw)
	if len(detail.Cast) > detailCastLimit {
		detail.Cast = detail.Cast[:detailCastLimit]
	}
	return detail, nil
}

// Translation returns the translation matching the client language, or a
// zero Translation when TMDB has none.
func (c *Client) Translation(ctx context.Context, movieID int) (models.Translation, error) {
	var result translationsResponse
	if err := c.get(ctx, "movie translations", fmt.Sprintf("/movie/%d/translations", movieID), nil, &result); err != nil {
		return models.Translation{}, err
	}
	lang := strings.SplitN(c.language, "-", 2)[0]
	for _, t := range result.Translations {
		if t.ISO6391 == lang {
			return models.Translation{Title: t.Data.Title, Overview: t.Data.Overview}, nil
		}
	}
	return models.Translation{}, nil
}

// MoviesByCategory fetches one of the fixed movie lists (popular, top_rated, ...).
func (c *Client) MoviesByCategory(ctx context.Context, category string) ([]models.Movie, error) {
	return c.listMovies(ctx, "movies by category", "/movie/"+url.PathEscape(category), nil)
}

// Genres fetches the movie genre list.
func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	var result genreListResponse
	if err := c.get(ctx, "genre list", "/genre/movie/list", c.localized(nil), &result); err != nil {
		return []models.Genre{}, err
	}
	genres := make([]models.Genre, 0, len(result.Genres))
	for _, g := range result.Genres {
		genres = append(genres, models.Genre{ID: g.ID, Name: g.Name})
	}
	return genres, nil
}

// DiscoverByGenre issues one discovery call constrained by a single genre id.
func (c *Client) DiscoverByGenre(ctx context.Context, genreID int) ([]models.Movie, error) {
	params := url.Values{"with_genres": {strconv.Itoa(genreID)}}
	return c.listMovies(ctx, "discover by genre", "/discover/movie", params)
}

// DiscoverByGenres issues one discovery call requiring all of the given genres.
func (c *Client) DiscoverByGenres(ctx context.Context, genreIDs []int) ([]models.Movie, error) {
	ids := make([]string, 0, len(genreIDs))
	for _, id := range genreIDs {
		ids = append(ids, strconv.Itoa(id))
	}
	params := url.Values{"with_genres": {strings.Join(ids, ",")}}
	return c.listMovies(ctx, "discover by genres", "/discover/movie", params)
}

// DiscoverByKeyword issues one discovery call constrained by a keyword id.
func (c *Client) DiscoverByKeyword(ctx context.Context, keywordID int) ([]models.Movie, error) {
	params := url.Values{"with_keywords": {strconv.Itoa(keywordID)}}
	return c.listMovies(ctx, "discover by keyword", "/discover/movie", params)
}

// SearchMovies searches movies by title.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) ([]models.Movie, error) {
	params := pageParam(page)
	params.Set("query", query)
	return c.listMovies(ctx, "search movies", "/search/movie", params)
}

// SearchPeople searches people by name.
func (c *Client) SearchPeople(ctx context.Context, query string, page int) ([]models.Person, error) {
	params := pageParam(page)
	params.Set("query", query)
	params.Set("include_adult", "false")

	var result pagedResponse[RawPerson]
	if err := c.get(ctx, "search people", "/search/person", c.localized(params), &result); err != nil {
		return []models.Person{}, err
	}
	return c.people(result.Results), nil
}

// SearchKeywords searches TMDB keywords.
func (c *Client) SearchKeywords(ctx context.Context, query string) ([]models.Keyword, error) {
	var result pagedResponse[models.Keyword]
	if err := c.get(ctx, "search keywords", "/search/keyword", url.Values{"query": {query}}, &result); err != nil {
		return []models.Keyword{}, err
	}
	if result.Results == nil {
		return []models.Keyword{}, nil
	}
	return result.Results, nil
}

// MovieCredits fetches directors and cast for a movie. The credits endpoint
// does not take a language parameter.
func (c *Client) MovieCredits(ctx context.Context, movieID int) (models.Credits, error) {
	var raw RawCredits
	if err := c.get(ctx, "movie credits", fmt.Sprintf("/movie/%d/credits", movieID), nil, &raw); err != nil {
		return models.Credits{Directors: []string{}, Cast: []string{}}, err
	}
	return c.format.Credits(raw), nil
}

// PersonMovies fetches the movies a person appeared in.
func (c *Client) PersonMovies(ctx context.Context, personID int) ([]models.Movie, error) {
	var result personCreditsResponse
	path := fmt.Sprintf("/person/%d/movie_credits", personID)
	if err := c.get(ctx, "person movie credits", path, c.localized(nil), &result); err != nil {
		return []models.Movie{}, err
	}
	return c.format.Movies(result.Cast), nil
}

// SimilarMovies fetches movies similar to the given one.
func (c *Client) SimilarMovies(ctx context.Context, movieID, page int) ([]models.Movie, error) {
	return c.listMovies(ctx, "similar movies", fmt.Sprintf("/movie/%d/similar", movieID), pageParam(page))
}

// RecommendedMovies fetches TMDB's own recommendations for a movie.
func (c *Client) RecommendedMovies(ctx context.Context, movieID int) ([]models.Movie, error) {
	return c.listMovies(ctx, "movie recommendations", fmt.Sprintf("/movie/%d/recommendations", movieID), nil)
}

// Reviews fetches user reviews for a movie.
func (c *Client) Reviews(ctx context.Context, movieID, page int) ([]models.Review, error) {
	var result pagedResponse[RawReview]
	path := fmt.Sprintf("/movie/%d/reviews", movieID)
	if err := c.get(ctx, "movie reviews", path, c.localized(pageParam(page)), &result); err != nil {
		return []models.Review{}, err
	}
	reviews := make([]models.Review, 0, len(result.Results))
	for _, r := range result.Results {
		reviews = append(reviews, c.format.Review(r))
	}
	return reviews, nil
}

// TrendingMovies fetches this week's trending movies.
func (c *Client) TrendingMovies(ctx context.Context) ([]models.Movie, error) {
	return c.listMovies(ctx, "trending movies", "/trending/movie/week", nil)
}

// TrendingTV fetches this week's trending TV shows.
func (c *Client) TrendingTV(ctx context.Context) ([]models.TVShow, error) {
	var result pagedResponse[RawMovie]
	if err := c.get(ctx, "trending tv", "/trending/tv/week", c.localized(nil), &result); err != nil {
		return []models.TVShow{}, err
	}
	shows := make([]models.TVShow, 0, len(result.Results))
	for _, raw := range result.Results {
		shows = append(shows, c.format.TV(raw))
	}
	return shows, nil
}

// TrendingPeople fetches this week's trending people.
func (c *Client) TrendingPeople(ctx context.Context) ([]models.Person, error) {
	var result pagedResponse[RawPerson]
	if err := c.get(ctx, "trending people", "/trending/person/week", c.localized(nil), &result); err != nil {
		return []models.Person{}, err
	}
	return c.people(result.Results), nil
}

func (c *Client) people(raws []RawPerson) []models.Person {
	people := make([]models.Person, 0, len(raws))
	for _, raw := range raws {
		people = append(people, c.format.Person(raw))
	}
	return people
}
