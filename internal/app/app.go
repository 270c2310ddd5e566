// Package app wires configuration, logging, tracing and metrics into a
// room SDK client and a lobby client. Both commands start from here.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/hilthontt/chessrooms/internal/config"
	"github.com/hilthontt/chessrooms/internal/lobby"
	"github.com/hilthontt/chessrooms/internal/logging"
	"github.com/hilthontt/chessrooms/internal/tracing"
	"github.com/hilthontt/chessrooms/roomsdk"
	"github.com/hilthontt/chessrooms/roomsdk/option"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

type Application struct {
	Config         *config.Config
	Logger         logging.Logger
	Registry       *prometheus.Registry
	Metrics        *option.ClientMetrics
	TracerProvider trace.TracerProvider
	Rooms          *roomsdk.Client

	shutdownTracer tracing.ShutdownFunc
	metricsServer  *metricsServer
}

// New builds the application from cfg. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	logger := logging.NewLogger(&logging.LoggerConfig{
		FilePath:   cfg.Log.File,
		Encoding:   cfg.Log.Encoding,
		Level:      cfg.Log.Level,
		Logger:     cfg.Log.Backend,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})

	tp, shutdown, err := tracing.InitTracer(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Tracing.Environment,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("failed to start tracing: %w", err)
	}

	reg := newRegistry()
	metrics, err := option.NewClientMetrics(reg)
	if err != nil {
		_ = shutdown(ctx)
		_ = logger.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	app := &Application{
		Config:         cfg,
		Logger:         logger,
		Registry:       reg,
		Metrics:        metrics,
		TracerProvider: tp,
		shutdownTracer: shutdown,
	}
	app.Rooms = roomsdk.NewClient(app.requestOptions()...)

	if cfg.Metrics.Listen != "" {
		srv, err := startMetricsServer(cfg.Metrics.Listen, cfg.Metrics.Path, reg, logger)
		if err != nil {
			_ = app.Close(ctx)
			return nil, err
		}
		app.metricsServer = srv
	}

	extra := map[logging.ExtraKey]any{logging.BaseURL: cfg.Server.BaseURL}
	if cfg.Path != "" {
		extra[logging.ConfigPath] = cfg.Path
	}
	logger.Info(logging.General, logging.Startup, "application ready", extra)
	return app, nil
}

func (a *Application) requestOptions() []option.RequestOption {
	cfg := a.Config
	opts := []option.RequestOption{
		option.WithBaseURL(cfg.Server.BaseURL),
		option.WithTracerProvider(a.TracerProvider),
		option.WithMetrics(a.Metrics),
		option.WithMiddleware(logging.RequestLogger(a.Logger)),
	}
	if cfg.Server.RequestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Server.RequestTimeout))
	}
	if cfg.Client.RequestID {
		opts = append(opts, option.WithRequestID())
	}
	if cfg.Client.RateLimit.Requests > 0 {
		opts = append(opts, option.WithRateLimit(cfg.Client.RateLimit.Requests, cfg.Client.RateLimit.Window))
	}
	if cfg.Client.Debug {
		opts = append(opts, option.WithDebugLog(a.Logger))
	}
	return opts
}

// Lobby builds a lobby client over the room service. opts come last and
// set the user-facing collaborators.
func (a *Application) Lobby(opts ...lobby.Option) (*lobby.Client, error) {
	gameURL, err := a.Config.GameURL()
	if err != nil {
		return nil, fmt.Errorf("invalid game location: %w", err)
	}

	base := []lobby.Option{
		lobby.WithGameURL(gameURL),
		lobby.WithSerializedMutations(a.Config.Lobby.SerializeMutations),
		lobby.WithMaxNameLength(a.Config.Lobby.MaxNameLength),
		lobby.WithObserver(lobby.LogObserver(a.Logger)),
		lobby.WithTracerProvider(a.TracerProvider),
	}
	return lobby.New(a.Rooms.Room, append(base, opts...)...), nil
}

func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.metricsServer != nil {
		errs = append(errs, a.metricsServer.shutdown(ctx))
	}
	if a.shutdownTracer != nil {
		errs = append(errs, a.shutdownTracer(ctx))
	}
	a.Logger.Info(logging.General, logging.Shutdown, "application stopped", nil)
	errs = append(errs, a.Logger.Close())
	return errors.Join(errs...)
}
