package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moviemind/internal/models"
	"moviemind/internal/session"
)

// ErrBlobNotFound is returned by a BlobStore when no blob exists for a key.
var ErrBlobNotFound = errors.New("preference blob not found")

// UserProfileKey is the identity key shared by authenticated users.
const UserProfileKey = "user_profile"

// BlobStore persists one preference blob per identity key.
type BlobStore interface {
	Get(ctx context.Context, key string) (models.UserPreferences, error)
	Put(ctx context.Context, key string, prefs models.UserPreferences) error
}

// Store keeps a session's preferences in memory and mirrors every save to
// the backing BlobStore. Writes are whole-object overwrites.
type Store struct {
	blobs BlobStore
}

func NewStore(blobs BlobStore) *Store {
	return &Store{blobs: blobs}
}

// IdentityKey returns the blob key of the session, or false for an
// anonymous session, whose preferences only live in memory.
func IdentityKey(sc *session.Context) (string, bool) {
	switch {
	case sc.Authenticated():
		return UserProfileKey, true
	case sc.Guest():
		return "guest_" + sc.GuestID, true
	default:
		return "", false
	}
}

// Save replaces the session's preferences and synchronously rewrites the blob.
func (s *Store) Save(ctx context.Context, sc *session.Context, prefs models.UserPreferences) error {
	normalized := prefs.Normalize()
	sc.Preferences = &normalized

	key, ok := IdentityKey(sc)
	if !ok {
		slog.Debug("anonymous session, preferences kept in memory only", "session", sc.Key)
		return nil
	}
	if err := s.blobs.Put(ctx, key, normalized); err != nil {
		return fmt.Errorf("save preferences for %s: %w", key, err)
	}
	return nil
}

// Load returns the in-memory copy when present, otherwise the persisted
// blob, otherwise the all-empty default.
func (s *Store) Load(ctx context.Context, sc *session.Context) (models.UserPreferences, error) {
	if sc.Preferences != nil {
		return sc.Preferences.Normalize(), nil
	}

	key, ok := IdentityKey(sc)
	if !ok {
		return models.EmptyPreferences(), nil
	}

	prefs, err := s.blobs.Get(ctx, key)
	if errors.Is(err, ErrBlobNotFound) {
		return models.EmptyPreferences(), nil
	}
	if err != nil {
		return models.EmptyPreferences(), fmt.Errorf("load preferences for %s: %w", key, err)
	}

	cached := prefs.Normalize()
	sc.Preferences = &cached
	return cached.Normalize(), nil
}
