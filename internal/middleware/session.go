package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"moviemind/internal/session"
)

// SessionHeader carries the opaque client key in both directions.
const SessionHeader = "X-Session-Key"

const sessionLocal = "session"

// Session resolves the client key to a session context before the handler
// runs and writes the context back to the registry afterwards. Requests
// without a known key get a fresh anonymous context and a new key.
// Public paths (health, swagger, metrics) bypass it.
func Session(reg session.Registry) fiber.Handler {
	publicPrefixes := []string{"/api/v1/health", "/swagger", "/metrics"}

	return func(c fiber.Ctx) error {
		path := c.Path()
		for _, prefix := range publicPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		ctx := c.Context()
		var sc *session.Context
		if key := strings.TrimSpace(c.Get(SessionHeader)); key != "" {
			found, err := reg.Get(ctx, key)
			switch {
			case err == nil:
				sc = found
			case errors.Is(err, session.ErrNotFound):
				slog.Debug("unknown session key, issuing a new one")
			default:
				slog.Warn("session lookup failed", "error", err)
			}
		}
		if sc == nil {
			sc = session.New(uuid.NewString())
		}

		c.Locals(sessionLocal, sc)
		c.Set(SessionHeader, sc.Key)

		err := c.Next()
		if putErr := reg.Put(ctx, sc); putErr != nil {
			slog.Warn("failed to store session", "error", putErr)
		}
		return err
	}
}

// SessionFrom returns the context resolved by Session. Outside the
// middleware it returns a throwaway anonymous context.
func SessionFrom(c fiber.Ctx) *session.Context {
	if sc, ok := c.Locals(sessionLocal).(*session.Context); ok && sc != nil {
		return sc
	}
	return session.New("")
}
