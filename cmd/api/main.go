package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/courtside/courtside-api/internal/config"
	"github.com/courtside/courtside-api/internal/domain/booking"
	"github.com/courtside/courtside-api/internal/domain/court"
	"github.com/courtside/courtside-api/internal/domain/profile"
	"github.com/courtside/courtside-api/internal/domain/timeslot"
	"github.com/courtside/courtside-api/internal/middleware"
	"github.com/courtside/courtside-api/internal/pkg/database"
	"github.com/courtside/courtside-api/internal/pkg/imaging"
	"github.com/courtside/courtside-api/internal/pkg/jwt"
	"github.com/courtside/courtside-api/internal/pkg/response"
	"github.com/courtside/courtside-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Courtside API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	store, err := newStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	// ---------- Repositories ----------
	courtRepo := court.NewRepository(db)
	timeslotRepo := timeslot.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	profileRepo := profile.NewRepository(db)

	// ---------- Availability fan-out ----------
	hub := booking.NewHub(redisClient)
	go hub.Run()
	defer hub.Shutdown()

	cache := booking.NewAvailabilityCache(redisClient, cfg.AvailabilityCacheTTL)

	// ---------- Services ----------
	bookingService := booking.NewService(bookingRepo, courtRepo, timeslotRepo, cache, hub, cfg.MaxSlotsPerBooking)

	// ---------- Handlers ----------
	courtHandler := court.NewHandler(courtRepo, store, imaging.NewProcessor(imaging.DefaultConfig()))
	timeslotHandler := timeslot.NewHandler(timeslotRepo)
	bookingHandler := booking.NewHandler(bookingService, hub, cfg.AllowedOrigins)
	profileHandler := profile.NewHandler(profileRepo)

	authMiddleware := middleware.Auth(jwtService)
	optionalAuthMiddleware := middleware.OptionalAuth(jwtService)
	staffMiddleware := middleware.RequireStaff()
	adminMiddleware := middleware.RequireAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws/availability", bookingHandler.Stream)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/courts", courtHandler.Routes())
		r.Mount("/time-slots", timeslotHandler.Routes())
		r.Mount("/", bookingHandler.Routes(optionalAuthMiddleware))
		r.Mount("/me", profileHandler.Routes(authMiddleware))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Mount("/courts", courtHandler.AdminRoutes(authMiddleware, staffMiddleware))
		r.Mount("/time-slots", timeslotHandler.AdminRoutes(authMiddleware, staffMiddleware))
		r.Mount("/", bookingHandler.AdminRoutes(authMiddleware, staffMiddleware))
		r.Mount("/profiles", profileHandler.AdminRoutes(authMiddleware, adminMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// newStorage selects S3-compatible object storage when a bucket is
// configured, local disk otherwise
func newStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageBucket != "" {
		return storage.NewS3Storage(storage.S3Config{
			Endpoint:  cfg.StorageEndpoint,
			Region:    cfg.StorageRegion,
			AccessKey: cfg.StorageAccessKey,
			SecretKey: cfg.StorageSecretKey,
			Bucket:    cfg.StorageBucket,
			PublicURL: cfg.StoragePublicURL,
		})
	}
	return storage.NewLocalStorage(cfg.LocalStorageDir, "/uploads")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
