package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"moviemind/internal/config"
	"moviemind/internal/metrics"
	"moviemind/internal/models"
)

// Client is the TMDB API client. Every movie-shaped response is passed
// through the Formatter before it leaves the client.
type Client struct {
	apiKey      string
	bearerToken string
	accountID   string
	baseURL     string
	language    string
	format      Formatter
	http        *http.Client
}

// NewClient creates a new TMDB API client. A nil httpClient gets a client
// with a 15 second timeout.
func NewClient(cfg config.TMDBConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		apiKey:      cfg.APIKey,
		bearerToken: cfg.BearerToken,
		accountID:   cfg.AccountID,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		language:    cfg.Language,
		format: Formatter{
			ImageBaseURL:   cfg.ImageBaseURL,
			PlaceholderURL: cfg.PlaceholderURL,
		},
		http: httpClient,
	}
}

// Formatter returns the formatter applied to responses.
func (c *Client) Formatter() Formatter {
	return c.format
}

// ---- TMDB Response Types ----

// pagedResponse is the shape shared by list endpoints.
type pagedResponse[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// RawMovie is a movie or TV row as TMDB returns it. Optional fields are
// pointers so absence can be told apart from zero.
type RawMovie struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	Name         string      `json:"name"`
	Overview     string      `json:"overview"`
	ReleaseDate  string      `json:"release_date"`
	FirstAirDate string      `json:"first_air_date"`
	VoteAverage  *float64    `json:"vote_average"`
	PosterPath   *string     `json:"poster_path"`
	GenreIDs     []int       `json:"genre_ids"`
	Genres       []RawGenre  `json:"genres"`
	Runtime      int         `json:"runtime"`
	Credits      *RawCredits `json:"credits"`
}

// RawGenre is a genre from TMDB.
type RawGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RawCredits is the credits payload, standalone or appended to details.
type RawCredits struct {
	Cast []struct {
		Name string `json:"name"`
	} `json:"cast"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

// RawPerson is a person search or trending row.
type RawPerson struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Popularity  float64    `json:"popularity"`
	ProfilePath *string    `json:"profile_path"`
	KnownFor    []RawMovie `json:"known_for"`
}

// RawReview is a review row.
type RawReview struct {
	Author        string `json:"author"`
	AuthorDetails struct {
		Rating *float64 `json:"rating"`
	} `json:"author_details"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type genreListResponse struct {
	Genres []RawGenre `json:"genres"`
}

type personCreditsResponse struct {
	Cast []RawMovie `json:"cast"`
}

type translationsResponse struct {
	Translations []struct {
		ISO6391 string `json:"iso_639_1"`
		Data    struct {
			Title    string `json:"title"`
			Overview string `json:"overview"`
		} `json:"data"`
	} `json:"translations"`
}

// ---- Request Plumbing ----

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	return c.do(ctx, op, http.MethodGet, path, params, nil, out)
}

func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, body, out any) error {
	err := c.send(ctx, op, method, path, params, body, out)
	metrics.TMDBRequests.WithLabelValues(op, outcome(err)).Inc()
	return err
}

// send issues a single request. There is no retry: a non-success status is
// classified, logged once and returned.
func (c *Client) send(ctx context.Context, op, method, path string, params url.Values, body, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Kind: ErrMalformed, Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &Error{Op: op, Kind: ErrTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
	}

	slog.Debug("tmdb request", "op", op, "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("tmdb request failed", "op", op, "error", err)
		return &Error{Op: op, Kind: ErrTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		kind := ErrStatus
		if resp.StatusCode == http.StatusNotFound {
			kind = ErrNotFound
		}
		slog.Warn("tmdb returned non-success status", "op", op, "status", resp.StatusCode, "body", string(snippet))
		return &Error{Op: op, Status: resp.StatusCode, Kind: kind}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Error("failed to decode tmdb response", "op", op, "error", err)
		return &Error{Op: op, Status: resp.StatusCode, Kind: ErrMalformed, Err: err}
	}
	return nil
}

func (c *Client) localized(extra url.Values) url.Values {
	params := url.Values{}
	if c.language != "" {
		params.Set("language", c.language)
	}
	for k, vs := range extra {
		for _, v := range vs {
			params.Add(k, v)
		}
	}
	return params
}

// listMovies fetches a paged movie list and formats every row.
func (c *Client) listMovies(ctx context.Context, op, path string, params url.Values) ([]models.Movie, error) {
	var result pagedResponse[RawMovie]
	if err := c.get(ctx, op, path, c.localized(params), &result); err != nil {
		return []models.Movie{}, err
	}
	return c.format.Movies(result.Results), nil
}

func pageParam(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {fmt.Sprint(page)}}
}
