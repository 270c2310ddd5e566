package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "CHESSROOMS_"

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Client  ClientConfig  `koanf:"client"`
	Lobby   LobbyConfig   `koanf:"lobby"`
	Log     LogConfig     `koanf:"log"`
	Tracing TracingConfig `koanf:"tracing"`
	Metrics MetricsConfig `koanf:"metrics"`

	// Path is the file the config was read from, empty for defaults only.
	Path string `koanf:"-"`
}

type ServerConfig struct {
	BaseURL        string        `koanf:"base_url"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

type ClientConfig struct {
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	RequestID bool            `koanf:"request_id"`
	// Debug dumps every request and response to the log, passwords redacted.
	Debug bool `koanf:"debug"`
}

// RateLimitConfig caps requests per endpoint. Zero requests disables it.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

type LobbyConfig struct {
	GamePath           string `koanf:"game_path"`
	SerializeMutations bool   `koanf:"serialize_mutations"`
	MaxNameLength      int    `koanf:"max_name_length"`
}

type LogConfig struct {
	Backend    string `koanf:"backend"`
	Level      string `koanf:"level"`
	Encoding   string `koanf:"encoding"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Environment string  `koanf:"environment"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

// MetricsConfig exposes the client metrics over HTTP. An empty Listen
// address keeps them in-process.
type MetricsConfig struct {
	Listen string `koanf:"listen"`
	Path   string `koanf:"path"`
}

// Load reads the YAML file at path (skipped when path is empty), fills in
// defaults and applies CHESSROOMS_* environment overrides. Nested keys use
// a double underscore: CHESSROOMS_LOG__LEVEL sets log.level.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Path = path
	return &cfg, nil
}

// envKey maps CHESSROOMS_SERVER__BASE_URL to server.base_url. The SDK's
// CHESSROOMS_BASE_URL is honoured as server.base_url too.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	switch key {
	case "config":
		return ""
	case "base_url":
		return "server.base_url"
	}
	return strings.ReplaceAll(key, "__", ".")
}

func applyDefaults(k *koanf.Koanf) {
	// Server
	setDefault(k, "server.base_url", "http://localhost:8080/")
	setDefault(k, "server.request_timeout", 10*time.Second)

	// Client
	setDefault(k, "client.rate_limit.requests", 0)
	setDefault(k, "client.rate_limit.window", time.Second)
	setDefault(k, "client.request_id", true)
	setDefault(k, "client.debug", false)

	// Lobby
	setDefault(k, "lobby.game_path", "/game.html")
	setDefault(k, "lobby.serialize_mutations", true)
	setDefault(k, "lobby.max_name_length", 64)

	// Log
	setDefault(k, "log.backend", "zap")
	setDefault(k, "log.level", "info")
	setDefault(k, "log.encoding", "json")
	setDefault(k, "log.file", filepath.Join(xdg.StateHome, "chessrooms", "chessrooms.log"))
	setDefault(k, "log.max_size_mb", 10)
	setDefault(k, "log.max_backups", 3)
	setDefault(k, "log.max_age_days", 28)

	// Tracing
	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.endpoint", "http://localhost:4318/v1/traces")
	setDefault(k, "tracing.service_name", "chessrooms")
	setDefault(k, "tracing.environment", "development")
	setDefault(k, "tracing.sample_ratio", 1.0)

	// Metrics
	setDefault(k, "metrics.listen", "")
	setDefault(k, "metrics.path", "/metrics")
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) {
		_ = k.Set(key, value)
	}
}

func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.Server.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("server.base_url must be an absolute http(s) URL, got %q", c.Server.BaseURL))
	}
	if c.Server.RequestTimeout < 0 {
		errs = append(errs, errors.New("server.request_timeout cannot be negative"))
	}
	if c.Client.RateLimit.Requests < 0 {
		errs = append(errs, errors.New("client.rate_limit.requests cannot be negative"))
	}
	if c.Client.RateLimit.Requests > 0 && c.Client.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("client.rate_limit.window must be positive"))
	}
	if c.Lobby.MaxNameLength < 0 {
		errs = append(errs, errors.New("lobby.max_name_length cannot be negative"))
	}
	if !slices.Contains([]string{"zap", "zerolog"}, c.Log.Backend) {
		errs = append(errs, fmt.Errorf("log.backend must be zap or zerolog, got %q", c.Log.Backend))
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error", "fatal"}, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q is not supported", c.Log.Level))
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		errs = append(errs, errors.New("tracing.endpoint is required when tracing is enabled"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, errors.New("tracing.sample_ratio must be between 0 and 1"))
	}

	if c.Metrics.Listen != "" && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path))
	}

	return errors.Join(errs...)
}

// GameURL resolves lobby.game_path against the server base URL.
func (c *Config) GameURL() (*url.URL, error) {
	base, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return nil, err
	}
	ref, err := url.Parse(c.Lobby.GamePath)
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(ref), nil
}
