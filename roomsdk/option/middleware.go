package option

import (
	"net/http"
	"net/http/httputil"
	"regexp"

	"github.com/google/uuid"
	"github.com/hilthontt/chessrooms/roomsdk/internal/requestconfig"
)

// Middleware wraps a single request. Call next to continue the chain.
type Middleware = func(*http.Request, MiddlewareNext) (*http.Response, error)

type MiddlewareNext = func(*http.Request) (*http.Response, error)

// WithMiddleware returns a RequestOption that applies the given middleware
// to the requests made. Each middleware will execute in the order they were given.
func WithMiddleware(middlewares ...Middleware) RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.Middlewares = append(r.Middlewares, middlewares...)
		return nil
	})
}

var (
	sensitiveHeaderRegex = regexp.MustCompile(`(?im)^(Authorization|Cookie|Set-Cookie|X-Api-Key): [^\r\n]+`)
	passwordJSONRegex    = regexp.MustCompile(`("password"\s*:\s*)"(?:[^"\\]|\\.)*"`)
	passwordFormRegex    = regexp.MustCompile(`(?m)(^|&)(password=)[^&\s]*`)
)

func redactSensitiveHeaders(s string) string {
	return sensitiveHeaderRegex.ReplaceAllString(s, "$1: [REDACTED]")
}

// redact hides headers and password fields, both JSON and form encoded.
func redact(s string) string {
	s = redactSensitiveHeaders(s)
	s = passwordJSONRegex.ReplaceAllString(s, `$1"[REDACTED]"`)
	return passwordFormRegex.ReplaceAllString(s, "$1$2[REDACTED]")
}

// DebugLogger is satisfied by *zap.SugaredLogger and the application logger.
type DebugLogger interface {
	Debugf(template string, args ...any)
}

// WithDebugLog dumps every request and response. Credentials and passwords
// are redacted.
func WithDebugLog(logger DebugLogger) RequestOption {
	if logger == nil {
		return WithMiddleware()
	}

	return WithMiddleware(func(r *http.Request, next MiddlewareNext) (*http.Response, error) {
		if dump, err := httputil.DumpRequestOut(r, true); err == nil {
			logger.Debugf("REQUEST:\n%s\n", redact(string(dump)))
		}

		resp, err := next(r)

		if resp != nil {
			if dump, err := httputil.DumpResponse(resp, true); err == nil {
				logger.Debugf("RESPONSE:\n%s\n", redact(string(dump)))
			}
		}

		if err != nil {
			logger.Debugf("REQUEST ERROR: %v", err)
		}

		return resp, err
	})
}

const RequestIDHeader = "X-Request-ID"

// WithRequestID tags each request with a fresh UUID unless the caller
// already set one.
func WithRequestID() RequestOption {
	return WithMiddleware(func(r *http.Request, next MiddlewareNext) (*http.Response, error) {
		if r.Header.Get(RequestIDHeader) == "" {
			r.Header.Set(RequestIDHeader, uuid.NewString())
		}
		return next(r)
	})
}
