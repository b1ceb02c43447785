package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/authkit/internal/api/handlers"
	"github.com/isdelr/authkit/internal/auth"
	"github.com/isdelr/authkit/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the collaborators the HTTP surface is built on.
type Dependencies struct {
	Auth        services.AuthServiceProvider
	Users       services.UserServiceProvider
	Events      services.EventServiceProvider
	Codec       *auth.TokenCodec
	DB          handlers.Pinger
	CORSOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Auth)
	userHandler := handlers.NewUserHandler(deps.Users)
	eventHandler := handlers.NewEventHandler(deps.Events)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Get("/healthz", healthHandler.Check)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/verify-email", authHandler.VerifyEmail)
		r.Post("/resend-verification-email", authHandler.ResendVerificationEmail)
		r.Post("/login", authHandler.Login)
		r.Post("/recover-password", authHandler.RecoverPassword)
		r.Post("/reset-password", authHandler.ResetPassword)
	})

	r.Route("/user", func(r chi.Router) {
		r.Use(RequireUser(deps.Codec, deps.Users))
		r.Get("/me", userHandler.Me)
		r.Put("/update-password", userHandler.UpdatePassword)
		r.Get("/events", eventHandler.GetMine)
	})

	return r
}
