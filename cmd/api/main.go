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
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog/log"

	"github.com/fonthenet/sihadz-api/internal/config"
	"github.com/fonthenet/sihadz-api/internal/domain/booking"
	"github.com/fonthenet/sihadz-api/internal/domain/patient"
	"github.com/fonthenet/sihadz-api/internal/domain/provider"
	"github.com/fonthenet/sihadz-api/internal/domain/ticket"
	"github.com/fonthenet/sihadz-api/internal/domain/wallet"
	"github.com/fonthenet/sihadz-api/internal/middleware"
	"github.com/fonthenet/sihadz-api/internal/pkg/database"
	"github.com/fonthenet/sihadz-api/internal/pkg/jwt"
	"github.com/fonthenet/sihadz-api/internal/pkg/logger"
	pkgresponse "github.com/fonthenet/sihadz-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	if cfg.IsProduction() && cfg.JWTSecret == "super-secret-key-change-me" {
		log.Fatal().Msg("JWT_SECRET must be set in production")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Sihadz booking API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Repositories ----------
	providerRepo := provider.NewRepository(db)
	patientRepo := patient.NewRepository(db)
	walletRepo := wallet.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	ticketRepo := ticket.NewRepository(db)

	// ---------- Services ----------
	providerService := provider.NewService(providerRepo, redisClient, cfg.ScheduleCacheTTL)
	walletService := wallet.NewService(walletRepo)
	ticketService := ticket.NewService(ticketRepo, patientRepo)
	bookingService := booking.NewService(bookingRepo, walletRepo, providerService, patientRepo, ticketService)

	// ---------- Handlers ----------
	providerHandler := provider.NewHandler(providerService)
	walletHandler := wallet.NewHandler(walletService)
	bookingHandler := booking.NewHandler(bookingService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/providers", providerHandler.Routes())
		r.Mount("/wallet", walletHandler.Routes(authMiddleware))
		r.Mount("/appointments", bookingHandler.Routes(authMiddleware))
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
