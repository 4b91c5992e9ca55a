package mcp

import (
	"github.com/rpggio/pairs/internal/domain/history"
	"github.com/rpggio/pairs/internal/domain/progress"
)

type EmptyParams struct{}

type StartRoundParams struct {
	Level int `json:"level,omitempty" jsonschema:"Level to play, starting at 1. Omit to play the current unlocked level."`
}

type FlipParams struct {
	TokenID int `json:"token_id" jsonschema:"Positional id of the token to turn face up"`
}

type GetHistoryParams struct {
	Level   int    `json:"level,omitempty" jsonschema:"Only rounds of this level"`
	Outcome string `json:"outcome,omitempty" jsonschema:"Only rounds with this outcome: complete or failed"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum entries to return (default 50)"`
	Offset  int    `json:"offset,omitempty" jsonschema:"Entries to skip"`
}

type ListLevelsParams struct {
	Count int `json:"count,omitempty" jsonschema:"Number of levels in the grid (default 50)"`
}

type LevelStars struct {
	Level int `json:"level"`
	Stars int `json:"stars"`
}

type ProgressResponse struct {
	CurrentLevel int          `json:"current_level"`
	TotalStars   int          `json:"total_stars"`
	BestStars    []LevelStars `json:"best_stars"`
}

type HistoryEntryResponse struct {
	RoundID   string `json:"round_id"`
	Level     int    `json:"level"`
	Outcome   string `json:"outcome"`
	Stars     int    `json:"stars"`
	Points    int    `json:"points"`
	Moves     int    `json:"moves"`
	Timestamp string `json:"timestamp"`
}

type HistoryResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
}

type LevelsResponse struct {
	Levels []progress.LevelStatus `json:"levels"`
}

func toProgressResponse(ledger *progress.Ledger) ProgressResponse {
	resp := ProgressResponse{
		CurrentLevel: ledger.CurrentLevel,
		TotalStars:   ledger.TotalStars(),
		BestStars:    []LevelStars{},
	}
	for _, level := range ledger.CompletedLevels() {
		resp.BestStars = append(resp.BestStars, LevelStars{Level: level, Stars: ledger.BestStars[level]})
	}
	return resp
}

func toHistoryResponse(entries []history.Entry) HistoryResponse {
	resp := HistoryResponse{Entries: make([]HistoryEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, HistoryEntryResponse{
			RoundID:   entry.RoundID,
			Level:     entry.Level,
			Outcome:   string(entry.Outcome),
			Stars:     entry.Stars,
			Points:    entry.Points,
			Moves:     entry.Moves,
			Timestamp: entry.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return resp
}
