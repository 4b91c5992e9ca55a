package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RPCHandler handles JSON-RPC method dispatch for one player.
type RPCHandler interface {
	Handle(ctx context.Context, playerID, method string, params json.RawMessage) (any, error)
}

// RouterConfig holds the handlers mounted by NewServer. Nil handlers are
// not mounted. MCP authenticates inside its own middleware chain, so it is
// mounted outside Auth.
type RouterConfig struct {
	RPC  RPCHandler
	Hub  *Hub
	MCP  http.Handler
	Auth func(http.Handler) http.Handler
}

// Server wires HTTP handlers.
type Server struct {
	rpc RPCHandler
	hub *Hub
}

// NewServer creates an HTTP server router with middleware. /rpc and
// /events run behind cfg.Auth.
func NewServer(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	srv := &Server{rpc: cfg.RPC, hub: cfg.Hub}

	r.Get("/health", srv.handleHealth)
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
	}

	r.Group(func(r chi.Router) {
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}
		if cfg.RPC != nil {
			r.Post("/rpc", srv.handleRPC)
		}
		if cfg.Hub != nil {
			r.Get("/events", srv.handleEvents)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		code := ErrInvalidReq
		if !errors.Is(err, errInvalidRequest) {
			code = ErrParseCode
		}
		WriteError(w, nil, code, "invalid request", nil)
		return
	}

	playerID, ok := PlayerFromContext(r.Context())
	if !ok || playerID == "" {
		http.Error(w, "missing player", http.StatusUnauthorized)
		return
	}

	result, err := s.rpc.Handle(r.Context(), playerID, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		WriteHandlerError(w, req.ID, err)
		return
	}

	WriteResult(w, req.ID, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	playerID, ok := PlayerFromContext(r.Context())
	if !ok || playerID == "" {
		http.Error(w, "missing player", http.StatusUnauthorized)
		return
	}
	s.hub.Serve(w, r, playerID)
}
