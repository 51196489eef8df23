package models

// RecommendationResponse wraps a recommendation list.
type RecommendationResponse struct {
	Source          string  `json:"source"`
	Fallback        bool    `json:"fallback"`
	Recommendations []Movie `json:"recommendations"`
}

// HomeSection is one titled row of movies on the home page.
type HomeSection struct {
	Key    string  `json:"key"`
	Title  string  `json:"title"`
	Movies []Movie `json:"movies"`
}

// SearchResponse aggregates the three search endpoints.
type SearchResponse struct {
	Query    string    `json:"query"`
	Movies   []Movie   `json:"movies"`
	People   []Person  `json:"people"`
	Keywords []Keyword `json:"keywords"`
}

// NarrativeRequest is the request body for a free-text recommendation.
type NarrativeRequest struct {
	AdditionalInfo string `json:"additional_info" validate:"max=1000"`
}

// NarrativeResponse carries the generated text and the prompt it came from.
type NarrativeResponse struct {
	Prompt    string `json:"prompt"`
	Narrative string `json:"narrative"`
}

// FavoriteRequest is the request body for adding a favorite movie.
type FavoriteRequest struct {
	MovieID int `json:"movie_id" validate:"required,gt=0"`
}
