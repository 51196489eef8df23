package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingSecret is returned by Load when a required secret is not set.
var ErrMissingSecret = errors.New("required secret not set")

// Config holds all configuration for the MovieMind service.
type Config struct {
	TMDB        TMDBConfig
	TextGen     TextGenConfig
	DB          DBConfig
	Redis       RedisConfig
	Preferences PreferencesConfig
	RateLimit   RateLimitConfig
	SessionTTL  time.Duration
	Port        string
	LogLevel    slog.Level
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey         string
	BearerToken    string
	AccountID      string
	BaseURL        string
	AuthURL        string
	ImageBaseURL   string
	Language       string
	PlaceholderURL string
}

// TextGenConfig holds Hugging Face inference configuration.
type TextGenConfig struct {
	Token   string
	Model   string
	BaseURL string
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// RedisConfig holds Redis configuration. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PreferencesConfig selects where preference blobs are written.
type PreferencesConfig struct {
	Backend string // "file" or "postgres"
	DataDir string
}

// RateLimitConfig configures the per-client request limiter.
type RateLimitConfig struct {
	Max           int
	WindowSeconds int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rateLimitMax := positiveInt("RATE_LIMIT_MAX", 100)
	rateLimitWindow := positiveInt("RATE_LIMIT_WINDOW_SECONDS", 60)
	sessionTTLHours := positiveInt("SESSION_TTL_HOURS", 24)

	cfg := &Config{
		TMDB: TMDBConfig{
			APIKey:         os.Getenv("TMDB_API_KEY"),
			BearerToken:    os.Getenv("TMDB_BEARER_TOKEN"),
			AccountID:      os.Getenv("TMDB_ACCOUNT_ID"),
			BaseURL:        getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			AuthURL:        getEnv("TMDB_AUTH_URL", "https://www.themoviedb.org/authenticate"),
			ImageBaseURL:   getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"),
			Language:       getEnv("TMDB_LANGUAGE", "ko-KR"),
			PlaceholderURL: getEnv("PLACEHOLDER_POSTER_URL", "https://via.placeholder.com/500x750?text=No+Image"),
		},
		TextGen: TextGenConfig{
			Token:   os.Getenv("HUGGINGFACE_API_TOKEN"),
			Model:   getEnv("HUGGINGFACE_MODEL", "google/gemma-2-9b-it"),
			BaseURL: getEnv("HUGGINGFACE_BASE_URL", "https://api-inference.huggingface.co"),
		},
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "moviemind"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Preferences: PreferencesConfig{
			Backend: strings.ToLower(getEnv("PREFERENCE_BACKEND", "file")),
			DataDir: getEnv("DATA_DIR", "data"),
		},
		RateLimit: RateLimitConfig{
			Max:           rateLimitMax,
			WindowSeconds: rateLimitWindow,
		},
		SessionTTL: time.Duration(sessionTTLHours) * time.Hour,
		Port:       getEnv("SERVER_PORT", "8080"),
		LogLevel:   parseLevel(getEnv("LOG_LEVEL", "info")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	secrets := []struct{ name, value string }{
		{"TMDB_API_KEY", c.TMDB.APIKey},
		{"TMDB_BEARER_TOKEN", c.TMDB.BearerToken},
		{"TMDB_ACCOUNT_ID", c.TMDB.AccountID},
	}
	for _, s := range secrets {
		if strings.TrimSpace(s.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingSecret, s.name)
		}
	}

	switch c.Preferences.Backend {
	case "file", "postgres":
	default:
		return fmt.Errorf("unknown PREFERENCE_BACKEND %q", c.Preferences.Backend)
	}
	return nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// positiveInt reads an integer setting. Unparsable or non-positive values
// fall back to the default.
func positiveInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
