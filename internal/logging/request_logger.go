package logging

import (
	"errors"
	"net/http"
	"time"

	"github.com/hilthontt/chessrooms/roomsdk/option"
)

// RequestLogger records every call made to the room server. Bodies are
// never logged.
func RequestLogger(l Logger) option.Middleware {
	return func(r *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		start := time.Now()
		resp, err := next(r)

		extra := map[ExtraKey]any{
			Method:    r.Method,
			Path:      r.URL.Path,
			Latency:   time.Since(start).String(),
			RequestID: r.Header.Get(option.RequestIDHeader),
		}

		if err != nil {
			extra[ErrorMessage] = err.Error()
			if errors.Is(err, option.ErrRateLimited) {
				l.Warn(RequestResponse, RateLimiting, "request rejected locally", extra)
			} else {
				l.Error(RequestResponse, ExternalService, "request failed", extra)
			}
			return resp, err
		}

		extra[StatusCode] = resp.StatusCode
		if resp.StatusCode >= http.StatusBadRequest {
			l.Warn(RequestResponse, ExternalService, "room server rejected request", extra)
		} else {
			l.Info(RequestResponse, ExternalService, "request", extra)
		}
		return resp, err
	}
}
