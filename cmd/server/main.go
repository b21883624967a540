package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	h "github.com/gorilla/handlers"
	"github.com/rs/zerolog"

	"github.com/convitapp/convite-api/internal/config"
	"github.com/convitapp/convite-api/internal/fields"
	"github.com/convitapp/convite-api/internal/handlers"
	"github.com/convitapp/convite-api/internal/middleware"
	"github.com/convitapp/convite-api/internal/migration"
	"github.com/convitapp/convite-api/internal/models"
	"github.com/convitapp/convite-api/internal/render"
	"github.com/convitapp/convite-api/internal/repository"
	"github.com/convitapp/convite-api/internal/routes"
	"github.com/convitapp/convite-api/internal/storage"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type application struct {
	config *config.Config
	db     *sql.DB
	store  *storage.FilesystemStore
	logger zerolog.Logger
}

func main() {
	// Set up structured, level-based logging.
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.SetFlags(0)
	log.SetOutput(logger)

	// Load configuration.
	cfg := config.Load()

	// Initialize database connection.
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ping database")
	}

	// Run database migrations.
	migration.RunMigrations(cfg.DatabaseURL, logger)

	// Initialize object storage for uploads and rendered invites.
	store, err := storage.NewFilesystemStore(cfg.Storage.Dir, cfg.Storage.BaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	app := &application{
		config: cfg,
		db:     db,
		store:  store,
		logger: logger,
	}

	// Initialize the HTTP router and middleware.
	router := app.initRouter(logger)
	loggedRouter := middleware.LoggingMiddleware(app.logger)(router)
	corsHandler := h.CORS(
		h.AllowedOrigins([]string{"http://localhost:3000"}),
		h.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		h.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		h.AllowCredentials(),
	)(loggedRouter)

	// Start the HTTP server and handle graceful shutdown.
	app.startServer(corsHandler, logger)

	logger.Info().Msg("Application terminated.")
}

// initRouter sets up all HTTP handlers and returns the router.
func (app *application) initRouter(logger zerolog.Logger) http.Handler {
	// Repositories
	templateRepo := repository.NewTemplateRepository(app.db)
	inviteRepo := repository.NewGeneratedInviteRepository(app.db)

	// Rendering pipeline: shared font library, store-backed image resolver.
	fontLibrary, err := render.NewFontLibrary()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load fonts")
	}
	renderer := render.New(fontLibrary, render.NewResolver(app.store))

	deriver := fields.NewDeriver()
	defaultDims := models.Dimensions{
		Width:  app.config.Canvas.Width,
		Height: app.config.Canvas.Height,
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(app.db, app.config, logger)
	templateHandler := handlers.NewTemplateHandler(templateRepo, deriver, defaultDims, logger)
	generateHandler := handlers.NewGenerateHandler(templateRepo, inviteRepo, renderer, app.store, logger)
	uploadHandler := handlers.NewUploadHandler(app.store, logger)
	healthHandler := handlers.NewHealthHandler(app.db)

	return routes.NewRouter(authHandler, templateHandler, generateHandler, uploadHandler, healthHandler,
		app.config.Storage.BaseURL, app.store.Dir())
}

// startServer launches the HTTP server and handles graceful shutdown.
func (app *application) startServer(handler http.Handler, logger zerolog.Logger) {
	server := &http.Server{
		Addr:    ":" + app.config.ServerPort,
		Handler: handler,
	}

	// Channel to listen for server errors
	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Wait for an interrupt signal or a server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info().Msgf("Received signal: %s. Shutting down...", sig)
	case err := <-serverErrCh:
		logger.Error().Err(err).Msg("Server error occurred")
	}

	// Gracefully shut down the HTTP server.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		logger.Info().Msg("HTTP server shutdown complete.")
	}
}
