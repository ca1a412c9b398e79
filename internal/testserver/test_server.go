package testserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/cadence/internal/config"
	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/domain/metrics"
	"github.com/rpggio/cadence/internal/domain/session"
	"github.com/rpggio/cadence/internal/mcp"
	"github.com/rpggio/cadence/internal/storage"
	"github.com/rpggio/cadence/internal/transport"
	"github.com/stretchr/testify/require"
)

// Options configures a TestServer. Zero values select sqlite in memory and
// the wall clock.
type Options struct {
	Driver string
	Clock  func() time.Time
}

// TestServer runs the full HTTP stack over an in-memory store.
type TestServer struct {
	Server   *httptest.Server
	Store    *storage.Store
	Activity *activity.Service
	Metrics  *metrics.Service

	t      *testing.T
	nextID int
}

func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	if opts.Driver == "" {
		opts.Driver = config.DriverSQLite
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	store, err := storage.Open(config.StoreConfig{Driver: opts.Driver, Path: storage.MemoryPath}, nil)
	require.NoError(t, err)

	activitySvc := activity.NewService(store.Events, nil).WithClock(opts.Clock)
	metricsSvc := metrics.NewService(store.Events, metrics.Config{
		Location: time.UTC,
		Session:  session.DefaultConfig(),
	}, nil).WithClock(opts.Clock)

	handler := mcp.NewHandler(activitySvc, metricsSvc, nil)
	server := httptest.NewServer(transport.NewServer(handler, nil, nil))

	t.Cleanup(func() {
		server.Close()
		_ = store.Close()
	})

	return &TestServer{
		Server:   server,
		Store:    store,
		Activity: activitySvc,
		Metrics:  metricsSvc,
		t:        t,
	}
}

// Call posts a JSON-RPC request to /rpc and returns the decoded response.
func (ts *TestServer) Call(method string, params any) transport.Response {
	ts.t.Helper()

	ts.nextID++
	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      ts.nextID,
	})
	require.NoError(ts.t, err)

	resp, err := http.Post(ts.Server.URL+"/rpc", "application/json", bytes.NewReader(payload))
	require.NoError(ts.t, err)
	defer resp.Body.Close()
	require.Equal(ts.t, http.StatusOK, resp.StatusCode)

	var out transport.Response
	require.NoError(ts.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// Decode re-marshals a result into out.
func (ts *TestServer) Decode(result any, out any) {
	ts.t.Helper()
	data, err := json.Marshal(result)
	require.NoError(ts.t, err)
	require.NoError(ts.t, json.Unmarshal(data, out))
}
