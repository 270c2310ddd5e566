package option_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hilthontt/chessrooms/internal/lobbytest"
	"github.com/hilthontt/chessrooms/roomsdk"
	"github.com/hilthontt/chessrooms/roomsdk/option"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newServer(t *testing.T) *lobbytest.Server {
	t.Helper()
	srv := lobbytest.NewServer()
	t.Cleanup(srv.Close)
	return srv
}

func TestWithRequestID(t *testing.T) {
	srv := newServer(t)
	client := roomsdk.NewClient(option.WithBaseURL(srv.URL), option.WithRequestID())

	_, err := client.Room.List(context.Background())
	require.NoError(t, err)
	_, err = client.Room.List(context.Background(), option.WithHeader(option.RequestIDHeader, "fixed"))
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	_, err = uuid.Parse(reqs[0].RequestID)
	assert.NoError(t, err)
	assert.Equal(t, "fixed", reqs[1].RequestID)
}

func TestWithHeaderDel(t *testing.T) {
	srv := newServer(t)
	client := roomsdk.NewClient(option.WithBaseURL(srv.URL))

	_, err := client.Room.List(context.Background(), option.WithHeaderDel("Accept"))
	require.NoError(t, err)
	assert.Empty(t, srv.Requests()[0].Accept)
}

func TestWithRateLimit(t *testing.T) {
	srv := newServer(t)
	client := roomsdk.NewClient(option.WithBaseURL(srv.URL), option.WithRateLimit(1, time.Minute))

	_, err := client.Room.List(context.Background())
	require.NoError(t, err)

	_, err = client.Room.List(context.Background())
	require.ErrorIs(t, err, option.ErrRateLimited)
	assert.True(t, strings.HasPrefix(roomsdk.Message(err), "too many requests"))

	// Other endpoints have their own window.
	_, err = client.Room.Get(context.Background(), srv.Seed("Room1", "pw"))
	require.NoError(t, err)

	assert.Equal(t, 2, srv.RequestCount())
}

func TestWithMetrics(t *testing.T) {
	srv := newServer(t)
	reg := prometheus.NewRegistry()
	m, err := option.NewClientMetrics(reg)
	require.NoError(t, err)

	again, err := option.NewClientMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, m.Requests, again.Requests)

	client := roomsdk.NewClient(option.WithBaseURL(srv.URL), option.WithMetrics(m))
	_, err = client.Room.List(context.Background())
	require.NoError(t, err)
	_, err = client.Room.Get(context.Background(), 9)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Latency))
}

func TestWithMetricsCountsTransportFailures(t *testing.T) {
	srv := lobbytest.NewServer()
	base := srv.URL
	srv.Close()

	m, err := option.NewClientMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	client := roomsdk.NewClient(option.WithBaseURL(base), option.WithMetrics(m))
	_, err = client.Room.List(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "0")))
}

type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (c *captureLogger) Debugf(template string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, fmt.Sprintf(template, args...))
}

func (c *captureLogger) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.lines, "\n")
}

func TestWithDebugLogRedactsPasswords(t *testing.T) {
	srv := newServer(t)
	logger := &captureLogger{}
	client := roomsdk.NewClient(option.WithBaseURL(srv.URL), option.WithDebugLog(logger))

	_, err := client.Room.New(context.Background(), roomsdk.RoomNewParams{Name: "Room1", Password: "hunter2"})
	require.NoError(t, err)
	require.NoError(t, client.Room.Delete(context.Background(), 1, roomsdk.RoomDeleteParams{Password: "hunter2"}))

	out := logger.String()
	assert.Contains(t, out, "REQUEST:")
	assert.Contains(t, out, "RESPONSE:")
	assert.Contains(t, out, `"name":"Room1"`)
	assert.NotContains(t, out, "hunter2")

	// The dump must not consume the body the server receives.
	assert.Contains(t, srv.Requests()[0].Body, "hunter2")
}

func TestWithTracerProvider(t *testing.T) {
	srv := newServer(t)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	client := roomsdk.NewClient(option.WithBaseURL(srv.URL), option.WithTracerProvider(tp))
	_, err := client.Room.List(context.Background())
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "chessrooms GET /api/chess/rooms/", spans[0].Name())
}

func TestWithMiddlewareOrder(t *testing.T) {
	srv := newServer(t)
	var order []string
	mw := func(name string) option.Middleware {
		return func(r *http.Request, next option.MiddlewareNext) (*http.Response, error) {
			order = append(order, name)
			return next(r)
		}
	}

	client := roomsdk.NewClient(option.WithBaseURL(srv.URL), option.WithMiddleware(mw("a"), mw("b")))
	_, err := client.Room.List(context.Background(), option.WithMiddleware(mw("c")))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestWithHTTPClientNil(t *testing.T) {
	srv := newServer(t)
	client := roomsdk.NewClient(option.WithBaseURL(srv.URL))

	_, err := client.Room.List(context.Background(), option.WithHTTPClient(nil))
	require.Error(t, err)
	assert.Zero(t, srv.RequestCount())
}
