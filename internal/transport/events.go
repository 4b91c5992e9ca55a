package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rpggio/pairs/internal/domain/round"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	sendBuffer   = 64
	maxFrameSize = 512
)

// EventMessage is the frame pushed to websocket clients for each round signal.
type EventMessage struct {
	PlayerID string `json:"player_id"`
	round.Event
}

// Client is one websocket connection subscribed to a player's signals.
type Client struct {
	conn     *websocket.Conn
	playerID string
	send     chan []byte
}

// Hub fans round signals out to the websocket clients of each player.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]map[*Client]struct{}
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Publish delivers evt to every connection of playerID. A client whose
// buffer is full misses the frame.
func (h *Hub) Publish(playerID string, evt round.Event) {
	payload, err := json.Marshal(EventMessage{PlayerID: playerID, Event: evt})
	if err != nil {
		h.logger.Error("encode event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[playerID] {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("dropping event for slow client", "player_id", playerID, "type", evt.Type)
		}
	}
}

// Connections reports the number of open connections for playerID.
func (h *Hub) Connections(playerID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[playerID])
}

// Serve upgrades the request and streams playerID's signals until the
// client disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, playerID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &Client{conn: conn, playerID: playerID, send: make(chan []byte, sendBuffer)}
	h.register(c)
	h.logger.Info("events client connected", "player_id", playerID)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.playerID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.playerID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.playerID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.playerID)
	}
	close(c.send)
}

// readPump drains control frames so pings and close are processed.
func (h *Hub) readPump(c *Client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		h.logger.Info("events client disconnected", "player_id", c.playerID)
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
