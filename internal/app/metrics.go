package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hilthontt/chessrooms/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func metricsRouter(path string, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return r
}

type metricsServer struct {
	srv *http.Server
}

func startMetricsServer(addr, path string, reg *prometheus.Registry, logger logging.Logger) (*metricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for metrics on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           metricsRouter(path, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(logging.IO, logging.ExternalService, "metrics server stopped", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
	}()

	logger.Infof("serving metrics on %s%s", ln.Addr(), path)
	return &metricsServer{srv: srv}, nil
}

func (m *metricsServer) shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
