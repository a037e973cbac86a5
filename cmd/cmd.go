package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photosec-backend/internal/config"
	"photosec-backend/internal/handlers"
	"photosec-backend/internal/middleware"
	"photosec-backend/internal/repository"
	"photosec-backend/internal/services"
	"photosec-backend/internal/storage"
	"photosec-backend/internal/web"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Blob store for photo content
	blobs, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	log.Info().Str("backend", cfg.Storage.Backend).Msg("Storage initialized")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	photoRepo := repository.NewPhotoRepository(db)

	// Initialize services
	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	authService := services.NewAuthService(userRepo, cfg.Session.Secret, sessionTTL)
	pairingService, err := services.NewPairingService(tokenRepo, userRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create pairing service")
	}
	uploadService := services.NewUploadService(photoRepo, blobs)
	galleryService := services.NewGalleryService(photoRepo, blobs)
	hub := services.NewHub()

	// Page templates
	templates, err := web.NewTemplates()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load templates")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, templates)
	pairingHandler := handlers.NewPairingHandler(pairingService, templates)
	uploadHandler := handlers.NewUploadHandler(uploadService, pairingService, hub)
	galleryHandler := handlers.NewGalleryHandler(galleryService, templates, hub)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Requested-With"},
	}))

	sessionPage := middleware.SessionAuth(authService, true)
	sessionAPI := middleware.SessionAuth(authService, false)

	// Public routes
	r.Get("/login/", authHandler.LoginPage)
	r.Post("/login/", authHandler.Login)
	r.Get("/createuser/", authHandler.CreateUserPage)
	r.Post("/createuser/", authHandler.CreateUser)
	r.Get("/logout/", authHandler.Logout)
	r.Post("/photoupload/{user}/{token}", uploadHandler.UploadToken)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Session-gated HTML pages
	r.Group(func(r chi.Router) {
		r.Use(sessionPage)
		r.Get("/", galleryHandler.FilesPage)
		r.Get("/files/", galleryHandler.FilesPage)
		r.Post("/files/", galleryHandler.DeleteFiles)
		r.Get("/qrcode/", pairingHandler.QRCodePage)
		r.Get("/media/{photoID}", galleryHandler.Media)
	})

	// Session-gated ajax and API routes
	r.Group(func(r chi.Router) {
		r.Use(sessionAPI)
		r.Post("/photoupload/", uploadHandler.UploadSession)
		r.Get("/ajax/retrievephotos/", galleryHandler.RetrievePhotosJSON)
		r.Get("/ws", wsHandler.HandleWebSocket)
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
