package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"moviemind/internal/models"
)

type requestTokenResponse struct {
	Success      bool   `json:"success"`
	RequestToken string `json:"request_token"`
}

type sessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

type guestSessionResponse struct {
	Success        bool   `json:"success"`
	GuestSessionID string `json:"guest_session_id"`
}

type statusResponse struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

var errMissingField = errors.New("expected field missing from response")

// CreateRequestToken obtains a request token the user must approve on TMDB.
func (c *Client) CreateRequestToken(ctx context.Context) (string, error) {
	const op = "create request token"
	var result requestTokenResponse
	if err := c.get(ctx, op, "/authentication/token/new", nil, &result); err != nil {
		return "", err
	}
	if result.RequestToken == "" {
		return "", &Error{Op: op, Kind: ErrMalformed, Err: errMissingField}
	}
	return result.RequestToken, nil
}

// CreateSession exchanges an approved request token for a session id.
func (c *Client) CreateSession(ctx context.Context, requestToken string) (string, error) {
	const op = "create session"
	var result sessionResponse
	body := map[string]string{"request_token": requestToken}
	if err := c.do(ctx, op, http.MethodPost, "/authentication/session/new", nil, body, &result); err != nil {
		return "", err
	}
	if result.SessionID == "" {
		return "", &Error{Op: op, Kind: ErrMalformed, Err: errMissingField}
	}
	return result.SessionID, nil
}

// CreateGuestSession creates an anonymous guest session.
func (c *Client) CreateGuestSession(ctx context.Context) (string, error) {
	const op = "create guest session"
	var result guestSessionResponse
	if err := c.get(ctx, op, "/authentication/guest_session/new", nil, &result); err != nil {
		return "", err
	}
	if result.GuestSessionID == "" {
		return "", &Error{Op: op, Kind: ErrMalformed, Err: errMissingField}
	}
	return result.GuestSessionID, nil
}

// DeleteSession invalidates a session on TMDB.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	body := map[string]string{"session_id": sessionID}
	return c.do(ctx, "delete session", http.MethodDelete, "/authentication/session", nil, body, nil)
}

// AddFavorite marks a movie as favorite on the configured account.
func (c *Client) AddFavorite(ctx context.Context, sessionID string, movieID int) error {
	const op = "add favorite"
	body := map[string]any{
		"media_type": "movie",
		"media_id":   movieID,
		"favorite":   true,
	}
	params := url.Values{"session_id": {sessionID}}
	var result statusResponse
	path := fmt.Sprintf("/account/%s/favorite", url.PathEscape(c.accountID))
	if err := c.do(ctx, op, http.MethodPost, path, params, body, &result); err != nil {
		return err
	}
	if !result.Success {
		return &Error{Op: op, Kind: ErrStatus, Err: errors.New(result.StatusMessage)}
	}
	return nil
}

// FavoriteMovies lists the account's favorite movies.
func (c *Client) FavoriteMovies(ctx context.Context, sessionID string, page int) ([]models.Movie, error) {
	params := pageParam(page)
	params.Set("session_id", sessionID)
	params.Set("sort_by", "created_at.desc")
	path := fmt.Sprintf("/account/%s/favorite/movies", url.PathEscape(c.accountID))
	return c.listMovies(ctx, "favorite movies", path, params)
}
