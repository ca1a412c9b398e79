package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

const runMainEnv = "CADENCE_TEST_RUN_MAIN"

// TestMain lets the stdio tests re-exec this test binary as the server.
func TestMain(m *testing.M) {
	if os.Getenv(runMainEnv) == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

type stdioSession struct {
	session *sdkmcp.ClientSession
}

func newStdioSession(t *testing.T, driver string) *stdioSession {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, os.Args[0])
	cmd.Env = append(os.Environ(),
		runMainEnv+"=1",
		"CADENCE_CONFIG_PATH=",
		"CADENCE_TRANSPORT_MODE=stdio",
		"CADENCE_STORE_DRIVER="+driver,
		"CADENCE_STORE_PATH=:memory:",
		"CADENCE_LOG_LEVEL=error",
	)

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
	return &stdioSession{session: session}
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.False(t, result.IsError, "tool %s returned error", name)

	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			return json.RawMessage(text.Text)
		}
	}
	t.Fatalf("tool %s returned no text content", name)
	return nil
}

func TestStdio_LogAndRead(t *testing.T) {
	for _, driver := range []string{"sqlite", "badger"} {
		t.Run(driver, func(t *testing.T) {
			s := newStdioSession(t, driver)

			var logged struct {
				EventID *string `json:"event_id"`
			}
			raw := s.callTool(t, "log_activity", map[string]any{
				"actor_id":   "u1",
				"type":       "PAGE_VISIT",
				"detail":     map[string]any{"pathname": "/board"},
				"project_id": "p1",
			})
			require.NoError(t, json.Unmarshal(raw, &logged))
			require.NotNil(t, logged.EventID)

			raw = s.callTool(t, "log_activity", map[string]any{"actor_id": "u1", "type": "NOT_A_TYPE"})
			require.JSONEq(t, `{"event_id":null}`, string(raw))

			var page struct {
				Events []struct {
					ID   string `json:"id"`
					Type string `json:"type"`
				} `json:"events"`
				HasMore bool `json:"has_more"`
			}
			raw = s.callTool(t, "get_actor_events", map[string]any{"actor_id": "u1"})
			require.NoError(t, json.Unmarshal(raw, &page))
			require.Len(t, page.Events, 1)
			require.Equal(t, *logged.EventID, page.Events[0].ID)
			require.False(t, page.HasMore)

			var snap struct {
				TotalEvents  int `json:"total_events"`
				PagesVisited int `json:"pages_visited"`
				Sessions     int `json:"sessions"`
			}
			raw = s.callTool(t, "get_user_activity_metrics", map[string]any{"actor_id": "u1", "timeframe": "day"})
			require.NoError(t, json.Unmarshal(raw, &snap))
			require.Equal(t, 1, snap.TotalEvents)
			require.Equal(t, 1, snap.PagesVisited)
			require.Equal(t, 1, snap.Sessions)
		})
	}
}
