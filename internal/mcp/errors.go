package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/pairs/internal/domain/history"
	"github.com/rpggio/pairs/internal/game"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, game.ErrInvalidLevel):
		return &APIError{Code: "INVALID_LEVEL", Message: "level cannot be played", RecoveryHint: "Levels start at 1"}
	case errors.Is(err, game.ErrNoRound):
		return &APIError{Code: "NO_ROUND", Message: "no round in progress", RecoveryHint: "Call start_round first"}
	case errors.Is(err, game.ErrNoSavedRound):
		return &APIError{Code: "NO_SAVED_ROUND", Message: "no saved round to resume", RecoveryHint: "Call start_round instead"}
	case errors.Is(err, history.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

func invalidParams(err error) *APIError {
	return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check the parameter types"}
}
