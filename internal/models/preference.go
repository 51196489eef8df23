package models

// UserPreferences stores a user's profile selections. It is overwritten
// wholesale on every save.
type UserPreferences struct {
	WatchedMovies   []string `json:"watched_movies"`
	FavoriteMovies  []string `json:"favorite_movies"`
	PreferredGenres []string `json:"preferred_genres"`
	PreferredStyles []string `json:"preferred_styles"`
}

// SetPreferenceRequest is the request body for saving preferences.
type SetPreferenceRequest struct {
	WatchedMovies   []string `json:"watched_movies" validate:"max=200,dive,required,max=300"`
	FavoriteMovies  []string `json:"favorite_movies" validate:"max=200,dive,required,max=300"`
	PreferredGenres []string `json:"preferred_genres" validate:"max=50,dive,required,max=50"`
	PreferredStyles []string `json:"preferred_styles" validate:"max=50,dive,required,max=100"`
}

// Preferences converts the request into a normalized UserPreferences.
func (r SetPreferenceRequest) Preferences() UserPreferences {
	return UserPreferences{
		WatchedMovies:   r.WatchedMovies,
		FavoriteMovies:  r.FavoriteMovies,
		PreferredGenres: r.PreferredGenres,
		PreferredStyles: r.PreferredStyles,
	}.Normalize()
}

// Normalize replaces nil lists with empty ones so the persisted JSON always
// carries all four keys as arrays.
func (p UserPreferences) Normalize() UserPreferences {
	return UserPreferences{
		WatchedMovies:   nonNil(p.WatchedMovies),
		FavoriteMovies:  nonNil(p.FavoriteMovies),
		PreferredGenres: nonNil(p.PreferredGenres),
		PreferredStyles: nonNil(p.PreferredStyles),
	}
}

// IsEmpty reports whether no selections were made.
func (p UserPreferences) IsEmpty() bool {
	return len(p.WatchedMovies) == 0 && len(p.FavoriteMovies) == 0 &&
		len(p.PreferredGenres) == 0 && len(p.PreferredStyles) == 0
}

// EmptyPreferences returns the all-empty default profile.
func EmptyPreferences() UserPreferences {
	return UserPreferences{}.Normalize()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
