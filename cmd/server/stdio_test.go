package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

var serverBinary string

// TestMain builds the server once for the stdio tests. They are skipped
// when no go toolchain is on PATH.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "pairs-server")
	if err == nil {
		bin := filepath.Join(dir, "pairs")
		if goBin, lookErr := exec.LookPath("go"); lookErr == nil {
			if exec.Command(goBin, "build", "-o", bin, ".").Run() == nil {
				serverBinary = bin
			}
		}
	}
	code := m.Run()
	if dir != "" {
		os.RemoveAll(dir)
	}
	os.Exit(code)
}

func newStdioSession(t *testing.T, extraEnv ...string) *sdkmcp.ClientSession {
	t.Helper()
	if serverBinary == "" {
		t.Skip("server binary not built")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, serverBinary)
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(),
		"PAIRS_TRANSPORT=stdio",
		"PAIRS_DB_PATH=:memory:",
		"PAIRS_AUTH_ENABLED=false",
	)
	cmd.Env = append(cmd.Env, extraEnv...)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		cancel()
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		session.Close()
		cancel()
	})
	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) json.RawMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, name)
	require.False(t, result.IsError, name)
	require.NotEmpty(t, result.Content, name)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, name)
	return json.RawMessage(text.Text)
}

func TestStdio_ProtocolCompliance(t *testing.T) {
	session := newStdioSession(t)

	initResult := session.InitializeResult()
	require.NotNil(t, initResult)
	require.Equal(t, "pairs", initResult.ServerInfo.Name)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
		require.NotEmpty(t, tool.Description, tool.Name)
	}
	require.Subset(t, names, []string{"start_round", "flip", "get_round", "get_progress", "list_levels"})
}

func TestStdio_PlayAndProgress(t *testing.T) {
	session := newStdioSession(t, "PAIRS_AUTO_TICK=false")

	var started struct {
		Accepted bool `json:"accepted"`
		Round    struct {
			Level  int               `json:"level"`
			Tokens []json.RawMessage `json:"tokens"`
		} `json:"round"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, session, "start_round", nil), &started))
	require.True(t, started.Accepted)
	require.Equal(t, 1, started.Round.Level)
	require.Len(t, started.Round.Tokens, 12)

	var flipped struct {
		Accepted bool `json:"accepted"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, session, "flip", map[string]any{"token_id": 0}), &flipped))
	require.True(t, flipped.Accepted)

	var progress struct {
		CurrentLevel int `json:"current_level"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, session, "get_progress", nil), &progress))
	require.Equal(t, 1, progress.CurrentLevel)
}

func TestStdio_StdoutCarriesOnlyProtocol(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "pairs.log")
	session := newStdioSession(t, "PAIRS_LOG_PATH="+logPath, "PAIRS_LOG_LEVEL=debug")

	_ = callTool(t, session, "get_progress", nil)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		if err != nil {
			return false
		}
		text := string(data)
		return strings.Contains(text, `msg="mcp request"`) && strings.Contains(text, `msg="mcp response"`)
	}, 5*time.Second, 100*time.Millisecond)
}
