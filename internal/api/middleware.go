package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/authkit/internal/api/handlers"
	"github.com/isdelr/authkit/internal/auth"
	"github.com/isdelr/authkit/internal/services"
	"github.com/rs/zerolog/log"
)

// RequireUser protects routes with a bearer access token. The token subject
// is resolved to a user, which is passed down via the request context.
func RequireUser(codec *auth.TokenCodec, users services.UserServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.BearerToken(r)
			if tokenStr == "" {
				unauthorized(w, "Not authenticated")
				return
			}

			userID, ok := codec.Verify(tokenStr)
			if !ok {
				unauthorized(w, "Could not validate credentials")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, services.ErrNotFound) {
					handlers.WriteError(w, http.StatusNotFound, "User not found")
					return
				}
				log.Error().Err(err).Str("user_id", userID).Msg("Failed to load authenticated user")
				handlers.WriteError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	handlers.WriteError(w, http.StatusUnauthorized, detail)
}

// RequestLogger logs HTTP request/response metadata.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Str("client_ip", r.RemoteAddr).
			Dur("latency", time.Since(start)).
			Msg("http request")
	})
}
