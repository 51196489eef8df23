package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	// ErrNoSession means the exchange call returned no session id.
	ErrNoSession = errors.New("no session id returned")
	// ErrInvalidTransition is returned for an operation the current state does not allow.
	ErrInvalidTransition = errors.New("invalid session state transition")
)

// Authenticator is the token and session exchange offered by the metadata API.
type Authenticator interface {
	CreateRequestToken(ctx context.Context) (string, error)
	CreateSession(ctx context.Context, requestToken string) (string, error)
	CreateGuestSession(ctx context.Context) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Manager drives the login, guest and logout transitions of a Context.
type Manager struct {
	auth    Authenticator
	authURL string
}

func NewManager(auth Authenticator, authURL string) *Manager {
	return &Manager{auth: auth, authURL: strings.TrimRight(authURL, "/")}
}

// BeginLogin obtains a request token and returns the URL where the user
// approves it. The context moves to pending authorization.
func (m *Manager) BeginLogin(ctx context.Context, sc *Context) (string, error) {
	if sc.State != StateAnonymous && sc.State != StatePending {
		return "", fmt.Errorf("%w: begin login from %s", ErrInvalidTransition, sc.State)
	}

	token, err := m.auth.CreateRequestToken(ctx)
	if err != nil {
		slog.Error("failed to create request token", "error", err)
		sc.abandonLogin()
		return "", fmt.Errorf("create request token: %w", err)
	}

	sc.State = StatePending
	sc.RequestToken = token
	return m.authURL + "/" + token, nil
}

// CompleteLogin exchanges the approved request token for a session id.
// On failure the context falls back to anonymous, keeping its preferences,
// and ErrNoSession is returned.
func (m *Manager) CompleteLogin(ctx context.Context, sc *Context) error {
	if sc.State != StatePending || sc.RequestToken == "" {
		return fmt.Errorf("%w: complete login from %s", ErrInvalidTransition, sc.State)
	}

	sessionID, err := m.auth.CreateSession(ctx, sc.RequestToken)
	if err != nil || sessionID == "" {
		slog.Warn("session exchange failed", "error", err)
		sc.abandonLogin()
		return ErrNoSession
	}

	sc.State = StateAuthenticated
	sc.RequestToken = ""
	sc.SessionID = sessionID
	sc.Preferences = nil
	return nil
}

// StartGuest creates a guest session in a single round trip.
func (m *Manager) StartGuest(ctx context.Context, sc *Context) error {
	if sc.State != StateAnonymous && sc.State != StatePending {
		return fmt.Errorf("%w: start guest from %s", ErrInvalidTransition, sc.State)
	}

	guestID, err := m.auth.CreateGuestSession(ctx)
	if err != nil || guestID == "" {
		slog.Warn("guest session creation failed", "error", err)
		sc.abandonLogin()
		return ErrNoSession
	}

	sc.State = StateGuest
	sc.RequestToken = ""
	sc.GuestID = guestID
	sc.Preferences = nil
	return nil
}

// Logout invalidates the remote session of an authenticated user and resets
// the context to anonymous. Guest sessions have no remote delete and are
// only cleared locally. A failed remote delete is logged; the local reset
// always happens.
func (m *Manager) Logout(ctx context.Context, sc *Context) {
	if sc.Authenticated() {
		if err := m.auth.DeleteSession(ctx, sc.SessionID); err != nil {
			slog.Warn("failed to delete remote session", "error", err)
		}
	}
	sc.Reset()
}
