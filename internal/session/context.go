package session

import "moviemind/internal/models"

// State is the authentication state of a session context.
type State string

const (
	StateAnonymous     State = "anonymous"
	StatePending       State = "pending_authorization"
	StateAuthenticated State = "authenticated"
	StateGuest         State = "guest"
)

// Context is the per-user session state. One value exists per client key
// and is passed explicitly to every component that needs identity or
// preference data.
type Context struct {
	Key          string                  `json:"key"`
	State        State                   `json:"state"`
	RequestToken string                  `json:"request_token,omitempty"`
	SessionID    string                  `json:"session_id,omitempty"`
	GuestID      string                  `json:"guest_id,omitempty"`
	Preferences  *models.UserPreferences `json:"preferences,omitempty"`
}

// New returns an anonymous context for the given client key.
func New(key string) *Context {
	return &Context{Key: key, State: StateAnonymous}
}

// Reset drops every credential and the cached preferences. The client key
// is kept.
func (c *Context) Reset() {
	*c = Context{Key: c.Key, State: StateAnonymous}
}

// Clone returns a deep copy.
func (c *Context) Clone() *Context {
	out := *c
	if c.Preferences != nil {
		prefs := c.Preferences.Normalize()
		out.Preferences = &prefs
	}
	return &out
}

// abandonLogin returns a pre-login context to anonymous after a failed
// exchange. Preferences saved while anonymous stay.
func (c *Context) abandonLogin() {
	c.State = StateAnonymous
	c.RequestToken = ""
}

func (c *Context) Authenticated() bool {
	return c.State == StateAuthenticated && c.SessionID != ""
}

func (c *Context) Guest() bool {
	return c.State == StateGuest && c.GuestID != ""
}
