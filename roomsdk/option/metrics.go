package option

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics holds the collectors registered by WithMetrics.
type ClientMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewClientMetrics registers the request counter and latency histogram on
// reg. Collectors that are already registered are reused.
func NewClientMetrics(reg prometheus.Registerer) (*ClientMetrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chessrooms",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Requests sent to the room server by method and status code.",
	}, []string{"method", "code"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chessrooms",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Round trip time of requests to the room server.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if latency, err = register(reg, latency); err != nil {
		return nil, err
	}

	return &ClientMetrics{Requests: requests, Latency: latency}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// WithMetrics records every request in m. Requests that never got a
// response are counted with code "0".
func WithMetrics(m *ClientMetrics) RequestOption {
	if m == nil {
		return WithMiddleware()
	}

	return WithMiddleware(func(r *http.Request, next MiddlewareNext) (*http.Response, error) {
		start := time.Now()
		resp, err := next(r)
		m.Latency.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())

		code := "0"
		if resp != nil {
			code = strconv.Itoa(resp.StatusCode)
		}
		m.Requests.WithLabelValues(r.Method, code).Inc()

		return resp, err
	})
}
