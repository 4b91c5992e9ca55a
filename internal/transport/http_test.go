package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testHandler struct {
	method string
	player string
	err    error
}

func (h *testHandler) Handle(_ context.Context, playerID, method string, _ json.RawMessage) (any, error) {
	h.method = method
	h.player = playerID
	if h.err != nil {
		return nil, h.err
	}
	return map[string]string{"player": playerID}, nil
}

func postRPC(t *testing.T, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/rpc", bytes.NewBufferString(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHTTPServer_RPC(t *testing.T) {
	handler := &testHandler{}
	resolver := &testResolver{tokenToPlayer: map[string]string{"token": "p1"}}
	server := httptest.NewServer(NewServer(RouterConfig{RPC: handler, Auth: AuthMiddleware(resolver)}))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, "token", `{"jsonrpc":"2.0","method":"get_round","id":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "get_round", handler.method)
	require.Equal(t, "p1", handler.player)
}

func TestHTTPServer_RPCUnauthorized(t *testing.T) {
	resolver := &testResolver{tokenToPlayer: map[string]string{}}
	server := httptest.NewServer(NewServer(RouterConfig{RPC: &testHandler{}, Auth: AuthMiddleware(resolver)}))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, "nope", `{"jsonrpc":"2.0","method":"get_round","id":1}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTPServer_RPCInvalidRequest(t *testing.T) {
	server := httptest.NewServer(NewServer(RouterConfig{RPC: &testHandler{}, Auth: DefaultPlayerMiddleware("p1")}))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, "", `{"jsonrpc":"1.0","method":"x"}`)
	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, ErrInvalidReq, out.Error.Code)
}

func TestHTTPServer_RPCHandlerError(t *testing.T) {
	handler := &testHandler{err: &codedError{code: "NO_ROUND", message: "no round"}}
	server := httptest.NewServer(NewServer(RouterConfig{RPC: handler, Auth: DefaultPlayerMiddleware("p1")}))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, "", `{"jsonrpc":"2.0","method":"flip","id":3}`)
	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, ErrApplication, out.Error.Code)
	require.Equal(t, float64(3), out.ID)
}

func TestHTTPServer_Health(t *testing.T) {
	resolver := &testResolver{tokenToPlayer: map[string]string{}}
	server := httptest.NewServer(NewServer(RouterConfig{RPC: &testHandler{}, Auth: AuthMiddleware(resolver)}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_MCPBypassesAuth(t *testing.T) {
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := PlayerFromContext(r.Context())
		require.False(t, ok)
		_, _ = w.Write([]byte("mcp"))
	})
	resolver := &testResolver{tokenToPlayer: map[string]string{}}
	server := httptest.NewServer(NewServer(RouterConfig{MCP: mcpHandler, Auth: AuthMiddleware(resolver)}))
	t.Cleanup(server.Close)

	resp, err := http.Post(server.URL+"/mcp", "application/json", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "mcp", buf.String())
}
