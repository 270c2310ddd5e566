package option

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hilthontt/chessrooms/roomsdk/internal/apierror"
	"github.com/hilthontt/chessrooms/roomsdk/internal/ratelimit"
)

// ErrRateLimited is wrapped by the error returned when WithRateLimit rejects
// a request locally.
var ErrRateLimited = errors.New("rate limited")

// WithRateLimit caps how many requests per method and path are sent in each
// window. Rejected requests never reach the network and fail with a
// *roomsdk.Error wrapping ErrRateLimited.
//
// The limiter is shared by every request the option is applied to, so pass
// it to NewClient rather than to individual calls.
func WithRateLimit(limit int, window time.Duration) RequestOption {
	rl := ratelimit.NewFixedWindow(limit, window)

	return WithMiddleware(func(r *http.Request, next MiddlewareNext) (*http.Response, error) {
		if ok, retryAfter := rl.Allow(r.Method + " " + r.URL.Path); !ok {
			msg := fmt.Sprintf("too many requests, try again in %s", retryAfter.Round(time.Second))
			return nil, apierror.Local(r, msg, ErrRateLimited)
		}
		return next(r)
	})
}
