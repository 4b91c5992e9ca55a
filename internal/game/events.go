package game

import (
	"log/slog"

	"github.com/rpggio/pairs/internal/domain/round"
)

// EventSink receives round signals. Publish is called with the service lock
// held and must not block or call back into the service.
type EventSink interface {
	Publish(playerID string, evt round.Event)
}

// Sinks fans a signal out to every sink.
type Sinks []EventSink

func (s Sinks) Publish(playerID string, evt round.Event) {
	for _, sink := range s {
		if sink != nil {
			sink.Publish(playerID, evt)
		}
	}
}

// LogSink writes signals to a logger at debug level.
type LogSink struct {
	Logger *slog.Logger
}

func (l LogSink) Publish(playerID string, evt round.Event) {
	if l.Logger == nil {
		return
	}
	l.Logger.Debug("round signal",
		"player_id", playerID,
		"type", evt.Type,
		"round_id", evt.RoundID,
		"level", evt.Level,
	)
}
