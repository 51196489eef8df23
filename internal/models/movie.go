package models

// Unknown is the sentinel rendered for missing release dates and ratings.
const Unknown = "unknown"

// Movie is the display record produced by the result formatter.
type Movie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	ReleaseDate string   `json:"release_date"`
	Rating      *float64 `json:"rating"`
	RatingLabel string   `json:"rating_label"`
	PosterURL   string   `json:"poster_url"`
	Directors   []string `json:"directors"`
	Cast        []string `json:"cast"`
}

// MovieDetail is the detail view of a movie. FullOverview is only
// available here, list records carry the truncated overview.
type MovieDetail struct {
	Movie
	FullOverview string   `json:"full_overview"`
	Genres       []string `json:"genres"`
	Runtime      int      `json:"runtime"`
}

// Credits holds the names extracted from a credits response.
type Credits struct {
	Directors []string `json:"directors"`
	Cast      []string `json:"cast"`
}

// TVShow is the display record for a trending TV show.
type TVShow struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Overview     string   `json:"overview"`
	FirstAirDate string   `json:"first_air_date"`
	Rating       *float64 `json:"rating"`
	RatingLabel  string   `json:"rating_label"`
	PosterURL    string   `json:"poster_url"`
}

// Person is a trending or searched person.
type Person struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Popularity float64  `json:"popularity"`
	KnownFor   []string `json:"known_for"`
	ProfileURL string   `json:"profile_url,omitempty"`
}

// Review is a formatted user review.
type Review struct {
	Author    string   `json:"author"`
	Rating    *float64 `json:"rating"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"created_at"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Keyword is a TMDB keyword search hit.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Translation is a localized title/overview pair.
type Translation struct {
	Title    string `json:"title"`
	Overview string `json:"overview"`
}

// MovieListResponse wraps a movie list. Page echoes the requested page on
// paged endpoints.
type MovieListResponse struct {
	Page   int     `json:"page,omitempty"`
	Movies []Movie `json:"movies"`
}
