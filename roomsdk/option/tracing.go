package option

import (
	"net/http"

	"github.com/hilthontt/chessrooms/roomsdk/internal/requestconfig"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

// WithTracerProvider sends requests through an otelhttp transport so every
// call becomes a client span and carries the trace context to the server.
func WithTracerProvider(tp trace.TracerProvider) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		if tp == nil {
			return nil
		}

		base := http.DefaultTransport
		if r.HTTPClient != nil && r.HTTPClient.Transport != nil {
			base = r.HTTPClient.Transport
		}
		if _, ok := base.(*otelhttp.Transport); ok {
			return nil
		}

		client := &http.Client{}
		if r.HTTPClient != nil {
			*client = *r.HTTPClient
		}
		client.Transport = otelhttp.NewTransport(base,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
				return "chessrooms " + req.Method + " " + req.URL.Path
			}),
		)
		r.HTTPClient = client
		return nil
	})
}
