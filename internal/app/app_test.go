package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hilthontt/chessrooms/internal/config"
	"github.com/hilthontt/chessrooms/internal/lobby"
	"github.com/hilthontt/chessrooms/internal/lobby/prompt"
	"github.com/hilthontt/chessrooms/internal/lobbytest"
	"github.com/hilthontt/chessrooms/roomsdk/option"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.BaseURL = baseURL
	cfg.Log.File = filepath.Join(t.TempDir(), "chessrooms.log")
	cfg.Log.Level = "debug"
	return cfg
}

func TestApplicationRunsLobby(t *testing.T) {
	srv := lobbytest.NewServer()
	defer srv.Close()
	cfg := testConfig(t, srv.URL)
	ctx := context.Background()

	app, err := New(ctx, cfg)
	require.NoError(t, err)

	var location string
	c, err := app.Lobby(
		lobby.WithPrompter(prompt.Answers("blitz", "hunter2")),
		lobby.WithNavigator(lobby.NavigatorFunc(func(_ context.Context, l string) { location = l })),
	)
	require.NoError(t, err)

	out := c.CreateRoom(ctx)
	require.True(t, out.OK(), out.Message)
	out = c.EnterRoom(ctx, out.RoomID)
	require.Equal(t, lobby.Navigated, out.State)
	assert.Equal(t, srv.URL+"/game.html?id=1", location)

	assert.Equal(t, 1.0, testutil.ToFloat64(app.Metrics.Requests.WithLabelValues(http.MethodPost, "201")))
	assert.Equal(t, 2.0, testutil.ToFloat64(app.Metrics.Requests.WithLabelValues(http.MethodGet, "200")))

	reqs := srv.Requests()
	require.NotEmpty(t, reqs)
	assert.NotEmpty(t, reqs[0].RequestID)

	require.NoError(t, app.Close(ctx))

	logs, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(logs), "application ready")
	assert.Contains(t, string(logs), "/api/chess/rooms")
	assert.NotContains(t, string(logs), "hunter2")
}

func TestNewRejectsBadMetricsAddress(t *testing.T) {
	cfg := testConfig(t, "http://localhost:8080/")
	cfg.Metrics.Listen = "not-an-address"

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics")
}

func TestMetricsRouter(t *testing.T) {
	reg := newRegistry()
	m, err := option.NewClientMetrics(reg)
	require.NoError(t, err)
	m.Requests.WithLabelValues(http.MethodGet, "200").Inc()

	rec := httptest.NewRecorder()
	metricsRouter("/metrics", reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `chessrooms_client_requests_total{code="200",method="GET"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	rec = httptest.NewRecorder()
	metricsRouter("/metrics", reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
