package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"moviemind/internal/config"
	"moviemind/internal/database"
	"moviemind/internal/handler"
	"moviemind/internal/middleware"
	"moviemind/internal/preferences"
	"moviemind/internal/session"
	"moviemind/internal/textgen"
	"moviemind/internal/tmdb"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Preference backend
	var blobs preferences.BlobStore
	switch cfg.Preferences.Backend {
	case "postgres":
		db, err := database.NewPostgres(startCtx, cfg.DB)
		if err != nil {
			slog.Error("failed to connect to PostgreSQL", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		blobs = preferences.NewPostgresStore(db)
	default:
		blobs = preferences.NewFileStore(cfg.Preferences.DataDir)
		slog.Info("storing preferences on disk", "dir", cfg.Preferences.DataDir)
	}

	// Connect to Redis (non-fatal if unavailable)
	var registry session.Registry = session.NewMemoryRegistry()
	rdb, err := database.NewRedis(startCtx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, keeping sessions in memory", "error", err)
	} else {
		registry = session.NewRedisRegistry(rdb, cfg.SessionTTL)
	}

	// Initialize clients and layers
	tmdbClient := tmdb.NewClient(cfg.TMDB, nil)
	generator := textgen.NewClient(cfg.TextGen, nil)
	if !generator.Configured() {
		slog.Warn("HUGGINGFACE_API_TOKEN not set, narrative recommendations disabled")
	}
	h := handler.New(
		tmdbClient,
		session.NewManager(tmdbClient, cfg.TMDB.AuthURL),
		preferences.NewStore(blobs),
		generator,
	)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MovieMind",
		ServerHeader: "MovieMind",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{ExposeHeaders: []string{middleware.SessionHeader}}))
	app.Use(middleware.Metrics())
	if rdb != nil {
		app.Use(middleware.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.WindowSeconds).Handler())
	}
	app.Use(middleware.Session(registry))

	// Swagger docs and metrics
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}
	handler.RegisterMetrics(app)

	// API routes
	h.Register(app.Group("/api/v1"))

	go func() {
		addr := ":" + cfg.Port
		slog.Info("starting MovieMind", "addr", addr)
		if err := app.Listen(addr); err != nil {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down MovieMind...")

	// Shutdown HTTP server first (stop accepting new requests)
	if err := app.Shutdown(); err != nil {
		slog.Error("error shutting down HTTP server", "error", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("error closing Redis connection", "error", err)
		}
	}

	slog.Info("MovieMind shutdown complete")
}
