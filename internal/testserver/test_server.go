package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pairs/internal/domain/board"
	"github.com/rpggio/pairs/internal/domain/catalog"
	"github.com/rpggio/pairs/internal/domain/history"
	"github.com/rpggio/pairs/internal/domain/progress"
	"github.com/rpggio/pairs/internal/game"
	"github.com/rpggio/pairs/internal/mcp"
	"github.com/rpggio/pairs/internal/sqlite"
	"github.com/rpggio/pairs/internal/transport"
	"github.com/stretchr/testify/require"
)

// OrderedDealer deals unshuffled boards: token i matches token i+pairs.
type OrderedDealer struct{}

func (OrderedDealer) Deal(level int) ([]board.Token, error) {
	if level < 1 {
		return nil, catalog.ErrInvalidLevel
	}
	pairs := catalog.PairCountForLevel(level)
	tokens := make([]board.Token, pairs*2)
	for i := range tokens {
		tokens[i] = board.Token{ID: i, Symbol: fmt.Sprintf("s%d", i%pairs)}
	}
	return tokens, nil
}

// TestServer is the full HTTP stack over an in-memory database with a
// manually driven clock.
type TestServer struct {
	Server    *httptest.Server
	DB        *sqlite.DB
	Game      *game.Service
	Scheduler *game.ManualScheduler
	Hub       *transport.Hub
	Keys      *sqlite.APIKeyRepository
	Token     string
	PlayerID  string
}

// New starts a server with one API key registered for playerID.
func New(t *testing.T, token, playerID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	scheduler := game.NewManualScheduler()
	hub := transport.NewHub(nil)
	keys := sqlite.NewAPIKeyRepository(db)

	svc := game.NewService(game.Config{
		Dealer:    OrderedDealer{},
		Progress:  progress.NewService(sqlite.NewProgressRepository(db), nil),
		History:   history.NewService(sqlite.NewHistoryRepository(db), nil),
		Snapshots: sqlite.NewSnapshotRepository(db),
		Scheduler: scheduler,
		Sink:      hub,
		Timings:   game.DefaultTimings(),
	})

	mcpServer := mcp.NewServer(mcp.Config{
		Game:          svc,
		Resolver:      keys,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	)

	server := httptest.NewServer(transport.NewServer(transport.RouterConfig{
		RPC:  mcp.NewHandler(svc),
		Hub:  hub,
		MCP:  mcpHandler,
		Auth: transport.AuthMiddleware(keys),
	}))

	ts := &TestServer{
		Server:    server,
		DB:        db,
		Game:      svc,
		Scheduler: scheduler,
		Hub:       hub,
		Keys:      keys,
		Token:     token,
		PlayerID:  playerID,
	}

	require.NoError(t, ts.AddAPIKey(token, playerID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// AddAPIKey registers another bearer token.
func (ts *TestServer) AddAPIKey(token, playerID string) error {
	return ts.Keys.Create(context.Background(), token, playerID, "test")
}

// EventsURL is the websocket URL for token's signal stream.
func (ts *TestServer) EventsURL(token string) string {
	return "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/events?token=" + token
}
