package tmdb

import (
	"fmt"

	"moviemind/internal/models"
)

const (
	// OverviewLimit is the number of characters of an overview shown in lists.
	OverviewLimit = 100
	// ReviewLimit is the number of characters of review content shown.
	ReviewLimit = 200
	// Ellipsis marks truncated text.
	Ellipsis = "..."
)

// Formatter turns raw TMDB rows into display records.
type Formatter struct {
	ImageBaseURL   string
	PlaceholderURL string
}

// Movie formats a raw movie row.
func (f Formatter) Movie(raw RawMovie) models.Movie {
	m := models.Movie{
		ID:          raw.ID,
		Title:       orUnknown(raw.Title),
		Overview:    Truncate(raw.Overview, OverviewLimit),
		ReleaseDate: orUnknown(raw.ReleaseDate),
		Rating:      raw.VoteAverage,
		RatingLabel: ratingLabel(raw.VoteAverage),
		PosterURL:   f.Poster(raw.PosterPath),
		Directors:   []string{},
		Cast:        []string{},
	}
	if raw.Credits != nil {
		credits := f.Credits(*raw.Credits)
		m.Directors = credits.Directors
		m.Cast = credits.Cast
	}
	return m
}

// Movies formats every row. The result is never nil.
func (f Formatter) Movies(raws []RawMovie) []models.Movie {
	out := make([]models.Movie, 0, len(raws))
	for _, raw := range raws {
		out = append(out, f.Movie(raw))
	}
	return out
}

// Detail formats a details response, keeping the full overview.
func (f Formatter) Detail(raw RawMovie) models.MovieDetail {
	genres := make([]string, 0, len(raw.Genres))
	for _, g := range raw.Genres {
		genres = append(genres, g.Name)
	}
	return models.MovieDetail{
		Movie:        f.Movie(raw),
		FullOverview: raw.Overview,
		Genres:       genres,
		Runtime:      raw.Runtime,
	}
}

// TV formats a raw TV row.
func (f Formatter) TV(raw RawMovie) models.TVShow {
	return models.TVShow{
		ID:           raw.ID,
		Name:         orUnknown(raw.Name),
		Overview:     Truncate(raw.Overview, OverviewLimit),
		FirstAirDate: orUnknown(raw.FirstAirDate),
		Rating:       raw.VoteAverage,
		RatingLabel:  ratingLabel(raw.VoteAverage),
		PosterURL:    f.Poster(raw.PosterPath),
	}
}

// Person formats a person row. Known-for entries without a movie title are skipped.
func (f Formatter) Person(raw RawPerson) models.Person {
	knownFor := make([]string, 0, len(raw.KnownFor))
	for _, work := range raw.KnownFor {
		if work.Title != "" {
			knownFor = append(knownFor, work.Title)
		}
	}
	p := models.Person{
		ID:         raw.ID,
		Name:       orUnknown(raw.Name),
		Popularity: raw.Popularity,
		KnownFor:   knownFor,
	}
	if raw.ProfilePath != nil && *raw.ProfilePath != "" {
		p.ProfileURL = f.ImageBaseURL + *raw.ProfilePath
	}
	return p
}

// Review formats a review row.
func (f Formatter) Review(raw RawReview) models.Review {
	return models.Review{
		Author:    orUnknown(raw.Author),
		Rating:    raw.AuthorDetails.Rating,
		Content:   Truncate(raw.Content, ReviewLimit),
		CreatedAt: orUnknown(raw.CreatedAt),
	}
}

// Credits extracts director names (crew with job "Director") and cast names.
func (f Formatter) Credits(raw RawCredits) models.Credits {
	credits := models.Credits{Directors: []string{}, Cast: []string{}}
	for _, member := range raw.Crew {
		if member.Job == "Director" && member.Name != "" {
			credits.Directors = append(credits.Directors, member.Name)
		}
	}
	for _, member := range raw.Cast {
		if member.Name != "" {
			credits.Cast = append(credits.Cast, member.Name)
		}
	}
	return credits
}

// Poster returns the absolute poster URL, or the placeholder when the path is absent.
func (f Formatter) Poster(path *string) string {
	if path == nil || *path == "" {
		return f.PlaceholderURL
	}
	return f.ImageBaseURL + *path
}

// Truncate keeps the first limit characters of s and appends the ellipsis
// when s is longer. Characters are counted as runes.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + Ellipsis
}

func ratingLabel(rating *float64) string {
	if rating == nil {
		return models.Unknown
	}
	return fmt.Sprintf("%.1f/10", *rating)
}

func orUnknown(s string) string {
	if s == "" {
		return models.Unknown
	}
	return s
}
