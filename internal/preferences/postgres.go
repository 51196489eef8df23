package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"moviemind/internal/models"
)

// PostgresStore keeps preference blobs in the preference_blobs table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := s.db.QueryRowContext(ctx, `
		SELECT watched_movies, favorite_movies, preferred_genres, preferred_styles
		FROM preference_blobs WHERE identity = $1
	`, key).Scan(
		pq.Array(&prefs.WatchedMovies), pq.Array(&prefs.FavoriteMovies),
		pq.Array(&prefs.PreferredGenres), pq.Array(&prefs.PreferredStyles),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserPreferences{}, ErrBlobNotFound
	}
	if err != nil {
		return models.UserPreferences{}, fmt.Errorf("failed to query preferences: %w", err)
	}
	return prefs.Normalize(), nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, prefs models.UserPreferences) error {
	prefs = prefs.Normalize()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preference_blobs (identity, watched_movies, favorite_movies, preferred_genres, preferred_styles, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (identity) DO UPDATE SET
			watched_movies = EXCLUDED.watched_movies,
			favorite_movies = EXCLUDED.favorite_movies,
			preferred_genres = EXCLUDED.preferred_genres,
			preferred_styles = EXCLUDED.preferred_styles,
			updated_at = NOW()
	`, key, pq.Array(prefs.WatchedMovies), pq.Array(prefs.FavoriteMovies),
		pq.Array(prefs.PreferredGenres), pq.Array(prefs.PreferredStyles))
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}
	return nil
}
