package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/authkit/internal/api"
	"github.com/isdelr/authkit/internal/auth"
	"github.com/isdelr/authkit/internal/config"
	"github.com/isdelr/authkit/internal/database"
	"github.com/isdelr/authkit/internal/logger"
	"github.com/isdelr/authkit/internal/notify"
	"github.com/isdelr/authkit/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.Environment)

	ctx := context.Background()

	// Set up database
	db, err := database.New(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up collaborators
	mailer := notify.New(cfg)
	if !cfg.EmailsEnabled() {
		log.Warn().Msg("SMTP is not configured, emails will only be logged")
	}
	codec := auth.NewTokenCodec(cfg.SecretKey)

	// Set up services
	userRepo := database.NewUserRepository(db)
	eventService := services.NewEventService(database.NewEventRepository(db))
	userService := services.NewUserService(userRepo, eventService)
	authService := services.NewAuthService(userRepo, codec, mailer, eventService, cfg)

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Auth:        authService,
		Users:       userService,
		Events:      eventService,
		Codec:       codec,
		DB:          db,
		CORSOrigins: cfg.AllCORSOrigins(),
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("environment", cfg.Environment).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
