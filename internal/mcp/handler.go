package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/pairs/internal/domain/history"
	"github.com/rpggio/pairs/internal/domain/progress"
	"github.com/rpggio/pairs/internal/domain/round"
	"github.com/rpggio/pairs/internal/game"
)

// GameService defines the game operations exposed over MCP and JSON-RPC.
type GameService interface {
	StartRound(ctx context.Context, playerID string, level int) (*game.Result, error)
	Flip(ctx context.Context, playerID string, tokenID int) (*game.Result, error)
	Tick(ctx context.Context, playerID string) (*game.Result, error)
	Pause(ctx context.Context, playerID string) (*game.Result, error)
	Resume(ctx context.Context, playerID string) (*game.Result, error)
	Restart(ctx context.Context, playerID string) (*game.Result, error)
	Current(ctx context.Context, playerID string) (*round.View, error)
	ResumeSaved(ctx context.Context, playerID string) (*game.Result, error)
	Progress(ctx context.Context, playerID string) *progress.Ledger
	Levels(ctx context.Context, playerID string, n int) []progress.LevelStatus
	ResetProgress(ctx context.Context, playerID string) *progress.Ledger
	History(ctx context.Context, playerID string, opts history.ListOptions) ([]history.Entry, error)
}

// Handler adapts the game service to request/response calls. The MCP tools
// and the JSON-RPC endpoint share it.
type Handler struct {
	game GameService
}

// NewHandler creates a new handler.
func NewHandler(svc GameService) *Handler {
	return &Handler{game: svc}
}

// Handle dispatches a JSON-RPC method to the game service.
func (h *Handler) Handle(ctx context.Context, playerID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "start_round":
		var req StartRoundParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.StartRound(ctx, playerID, req)
	case "flip":
		var req FlipParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.Flip(ctx, playerID, req)
	case "tick":
		return h.Tick(ctx, playerID)
	case "pause":
		return h.Pause(ctx, playerID)
	case "resume":
		return h.Resume(ctx, playerID)
	case "restart":
		return h.Restart(ctx, playerID)
	case "get_round":
		return h.GetRound(ctx, playerID)
	case "resume_round":
		return h.ResumeRound(ctx, playerID)
	case "get_progress":
		return h.GetProgress(ctx, playerID), nil
	case "reset_progress":
		return h.ResetProgress(ctx, playerID), nil
	case "get_history":
		var req GetHistoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.GetHistory(ctx, playerID, req)
	case "list_levels":
		var req ListLevelsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.ListLevels(ctx, playerID, req), nil
	default:
		return nil, &APIError{Code: "METHOD_NOT_FOUND", Message: fmt.Sprintf("unknown method: %s", method)}
	}
}

func (h *Handler) StartRound(ctx context.Context, playerID string, req StartRoundParams) (*game.Result, error) {
	res, err := h.game.StartRound(ctx, playerID, req.Level)
	return res, mapError(err)
}

func (h *Handler) Flip(ctx context.Context, playerID string, req FlipParams) (*game.Result, error) {
	res, err := h.game.Flip(ctx, playerID, req.TokenID)
	return res, mapError(err)
}

func (h *Handler) Tick(ctx context.Context, playerID string) (*game.Result, error) {
	res, err := h.game.Tick(ctx, playerID)
	return res, mapError(err)
}

func (h *Handler) Pause(ctx context.Context, playerID string) (*game.Result, error) {
	res, err := h.game.Pause(ctx, playerID)
	return res, mapError(err)
}

func (h *Handler) Resume(ctx context.Context, playerID string) (*game.Result, error) {
	res, err := h.game.Resume(ctx, playerID)
	return res, mapError(err)
}

func (h *Handler) Restart(ctx context.Context, playerID string) (*game.Result, error) {
	res, err := h.game.Restart(ctx, playerID)
	return res, mapError(err)
}

func (h *Handler) GetRound(ctx context.Context, playerID string) (*round.View, error) {
	view, err := h.game.Current(ctx, playerID)
	return view, mapError(err)
}

func (h *Handler) ResumeRound(ctx context.Context, playerID string) (*game.Result, error) {
	res, err := h.game.ResumeSaved(ctx, playerID)
	return res, mapError(err)
}

func (h *Handler) GetProgress(ctx context.Context, playerID string) ProgressResponse {
	return toProgressResponse(h.game.Progress(ctx, playerID))
}

func (h *Handler) ResetProgress(ctx context.Context, playerID string) ProgressResponse {
	return toProgressResponse(h.game.ResetProgress(ctx, playerID))
}

func (h *Handler) GetHistory(ctx context.Context, playerID string, req GetHistoryParams) (HistoryResponse, error) {
	opts := history.ListOptions{Limit: req.Limit, Offset: req.Offset}
	if req.Level > 0 {
		level := req.Level
		opts.Level = &level
	}
	if req.Outcome != "" {
		outcome := history.Outcome(req.Outcome)
		if outcome != history.OutcomeComplete && outcome != history.OutcomeFailed {
			return HistoryResponse{}, &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf("unknown outcome %q", req.Outcome)}
		}
		opts.Outcome = &outcome
	}

	entries, err := h.game.History(ctx, playerID, opts)
	if err != nil {
		return HistoryResponse{}, mapError(err)
	}
	return toHistoryResponse(entries), nil
}

func (h *Handler) ListLevels(ctx context.Context, playerID string, req ListLevelsParams) LevelsResponse {
	return LevelsResponse{Levels: h.game.Levels(ctx, playerID, req.Count)}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return invalidParams(err)
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
