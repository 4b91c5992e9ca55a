package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type playerKey struct{}

// PlayerResolver resolves a player ID from a bearer token.
type PlayerResolver interface {
	ResolvePlayer(ctx context.Context, token string) (string, error)
}

// PlayerFromContext returns the player ID from context, if present.
func PlayerFromContext(ctx context.Context) (string, bool) {
	playerID, ok := ctx.Value(playerKey{}).(string)
	return playerID, ok
}

// AuthMiddleware enforces bearer token authentication. Websocket clients
// that cannot set headers may pass the token as ?token=.
func AuthMiddleware(resolver PlayerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			playerID, err := resolver.ResolvePlayer(r.Context(), token)
			if err != nil || playerID == "" {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), playerKey{}, playerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DefaultPlayerMiddleware assigns every request to one player when auth is disabled.
func DefaultPlayerMiddleware(playerID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), playerKey{}, playerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
