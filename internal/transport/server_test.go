package transport_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/pairs/internal/domain/round"
	"github.com/rpggio/pairs/internal/testserver"
	"github.com/rpggio/pairs/internal/transport"
)

func call(t *testing.T, ts *testserver.TestServer, token, method string, params any) transport.Response {
	t.Helper()
	body, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "method": method, "params": params, "id": 1})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out transport.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func readEvent(t *testing.T, conn *websocket.Conn) transport.EventMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg transport.EventMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestServer_PlayOverRPCWithEvents(t *testing.T) {
	ts := testserver.New(t, "secret", "p1")

	conn, _, err := websocket.DefaultDialer.Dial(ts.EventsURL("secret"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return ts.Hub.Connections("p1") == 1 }, time.Second, 10*time.Millisecond)

	out := call(t, ts, "secret", "start_round", map[string]int{"level": 1})
	require.Nil(t, out.Error)

	msg := readEvent(t, conn)
	require.Equal(t, round.EventRoundStarted, msg.Type)
	require.Equal(t, "p1", msg.PlayerID)
	require.Equal(t, 1, msg.Level)

	// Level 1 has six pairs.
	out = call(t, ts, "secret", "flip", map[string]int{"token_id": 0})
	require.Nil(t, out.Error)
	require.Equal(t, true, out.Result.(map[string]any)["accepted"])
	require.Equal(t, round.EventTokenFlipped, readEvent(t, conn).Type)

	out = call(t, ts, "secret", "flip", map[string]int{"token_id": 6})
	require.Nil(t, out.Error)
	require.Equal(t, round.EventTokenFlipped, readEvent(t, conn).Type)
	matched := readEvent(t, conn)
	require.Equal(t, round.EventPairMatched, matched.Type)
	require.ElementsMatch(t, []int{0, 6}, matched.TokenIDs)
}

func TestServer_MismatchResolvesOnSchedulerAdvance(t *testing.T) {
	ts := testserver.New(t, "secret", "p1")
	require.Nil(t, call(t, ts, "secret", "start_round", map[string]int{"level": 1}).Error)
	require.Nil(t, call(t, ts, "secret", "flip", map[string]int{"token_id": 0}).Error)
	require.Nil(t, call(t, ts, "secret", "flip", map[string]int{"token_id": 1}).Error)

	out := call(t, ts, "secret", "get_round", nil)
	require.Equal(t, string(round.PhaseResolving), out.Result.(map[string]any)["phase"])

	ts.Scheduler.Advance(time.Second)

	out = call(t, ts, "secret", "get_round", nil)
	require.Equal(t, string(round.PhasePlaying), out.Result.(map[string]any)["phase"])
}

func TestServer_DomainErrorsCarryCode(t *testing.T) {
	ts := testserver.New(t, "secret", "p1")

	out := call(t, ts, "secret", "get_round", nil)
	require.NotNil(t, out.Error)
	require.Equal(t, transport.ErrApplication, out.Error.Code)
	require.Equal(t, "NO_ROUND", out.Error.Data.(map[string]any)["code"])

	out = call(t, ts, "secret", "delete_everything", nil)
	require.Equal(t, transport.ErrMethodNotFound, out.Error.Code)
}

func TestServer_PlayersAreIsolated(t *testing.T) {
	ts := testserver.New(t, "secret", "p1")
	require.NoError(t, ts.AddAPIKey("other", "p2"))

	require.Nil(t, call(t, ts, "secret", "start_round", map[string]int{"level": 3}).Error)

	out := call(t, ts, "other", "get_round", nil)
	require.NotNil(t, out.Error)
	require.Equal(t, "NO_ROUND", out.Error.Data.(map[string]any)["code"])
}

type bearerTransport struct {
	token string
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return http.DefaultTransport.RoundTrip(req)
}

func TestServer_MCPOverHTTP(t *testing.T) {
	ts := testserver.New(t, "secret", "p1")
	ctx := t.Context()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: "secret"}},
	}, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "start_round",
		Arguments: map[string]any{"level": 2},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	view, err := ts.Game.Current(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 2, view.Level)
}
