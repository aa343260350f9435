package handlers

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mirelio/api-console/internal/auth"
	"github.com/mirelio/api-console/pkg/ratelimit"
)

type contextKey string

const userContextKey contextKey = "user_id"

// AuthMiddleware validates the bearer token and sets the user context.
// Anything protected responds 401 on a missing, malformed or expired
// token; the client is expected to redirect to login on 401.
func AuthMiddleware(authSvc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "no token provided")
				return
			}

			bearerToken := strings.Split(authHeader, " ")
			if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "invalid token format")
				return
			}

			claims, err := authSvc.Validate(bearerToken[1])
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext retrieves the authenticated user id.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userContextKey).(string)
	return userID, ok
}

// RateLimitMiddleware throttles requests per client address.
func RateLimitMiddleware(limiter ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := r.RemoteAddr
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				clientKey = host
			}

			allowed, err := limiter.Allow(r.Context(), clientKey)
			if err != nil {
				log.Error().Err(err).Msg("rate limiter failure")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
