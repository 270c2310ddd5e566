package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/", cfg.Server.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "/game.html", cfg.Lobby.GamePath)
	assert.True(t, cfg.Lobby.SerializeMutations)
	assert.True(t, cfg.Client.RequestID)
	assert.Zero(t, cfg.Client.RateLimit.Requests)
	assert.Equal(t, "zap", cfg.Log.Backend)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
	assert.Empty(t, cfg.Metrics.Listen)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: https://chess.example.com/lobby/
  request_timeout: 3s
client:
  rate_limit:
    requests: 5
    window: 2s
lobby:
  game_path: play.html
  serialize_mutations: false
log:
  backend: zerolog
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "https://chess.example.com/lobby/", cfg.Server.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 5, cfg.Client.RateLimit.Requests)
	assert.Equal(t, 2*time.Second, cfg.Client.RateLimit.Window)
	assert.False(t, cfg.Lobby.SerializeMutations)
	assert.Equal(t, "zerolog", cfg.Log.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, 64, cfg.Lobby.MaxNameLength)

	game, err := cfg.GameURL()
	require.NoError(t, err)
	assert.Equal(t, "https://chess.example.com/lobby/play.html", game.String())
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")
	t.Setenv("CHESSROOMS_LOG__LEVEL", "error")
	t.Setenv("CHESSROOMS_SERVER__REQUEST_TIMEOUT", "250ms")
	t.Setenv("CHESSROOMS_BASE_URL", "http://rooms.internal:9000/")
	t.Setenv("CHESSROOMS_CONFIG", path)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.Server.RequestTimeout)
	assert.Equal(t, "http://rooms.internal:9000/", cfg.Server.BaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: localhost
client:
  rate_limit:
    requests: 3
    window: 0s
log:
  backend: logrus
tracing:
  sample_ratio: 2
metrics:
  listen: ":9464"
  path: metrics
`)

	_, err := Load(path)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "server.base_url")
	assert.Contains(t, msg, "client.rate_limit.window")
	assert.Contains(t, msg, "log.backend")
	assert.Contains(t, msg, "tracing.sample_ratio")
	assert.Contains(t, msg, "metrics.path")
}

func TestGameURLDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	game, err := cfg.GameURL()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/game.html", game.String())
}

func TestDetermineConfigPath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", DetermineConfigPath("/explicit.yaml"))

	t.Setenv("CHESSROOMS_CONFIG", "/from/env.yaml")
	assert.Equal(t, "/from/env.yaml", DetermineConfigPath(""))
}

func TestDetermineConfigPathCandidates(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CHESSROOMS_CONFIG", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chessrooms.yaml"), []byte("{}"), 0o600))

	assert.Equal(t, "./chessrooms.yaml", DetermineConfigPath(""))
}
