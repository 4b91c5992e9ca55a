package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const playerIDKey contextKey = iota

// getPlayerID extracts the player ID from context.
func getPlayerID(ctx context.Context) string {
	v, _ := ctx.Value(playerIDKey).(string)
	return v
}

// WithPlayerID returns a context carrying playerID.
func WithPlayerID(ctx context.Context, playerID string) context.Context {
	return context.WithValue(ctx, playerIDKey, playerID)
}

// PlayerResolver resolves a player ID from a bearer token.
type PlayerResolver interface {
	ResolvePlayer(ctx context.Context, token string) (string, error)
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver PlayerResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			playerID, err := resolver.ResolvePlayer(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}
			if playerID == "" {
				return nil, fmt.Errorf("unauthorized: invalid bearer token")
			}

			return next(WithPlayerID(ctx, playerID), method, req)
		}
	}
}

// noAuthMiddleware injects a default player when auth is disabled.
func noAuthMiddleware(defaultPlayer string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(WithPlayerID(ctx, defaultPlayer), method, req)
		}
	}
}
