package requestconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/hilthontt/chessrooms/roomsdk/internal"
	"github.com/hilthontt/chessrooms/roomsdk/internal/apierror"
)

const (
	ContentTypeJSON = "application/json;charset=utf-8"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// This interface is primarily used to describe an [*http.Client], but also
// supports custom HTTP implementations.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FormEncoder is implemented by params that are submitted as an HTML form
// instead of a JSON document.
type FormEncoder interface {
	URLValues() url.Values
}

// RequestConfig represents all the state related to one request.
//
// Editing the variables inside RequestConfig directly is unstable api. Prefer
// composing the RequestOption instead if possible.
type RequestConfig struct {
	RequestTimeout time.Duration
	Context        context.Context
	Request        *http.Request
	BaseURL        *url.URL
	// DefaultBaseURL will be used if BaseURL is not explicitly overridden using
	// WithBaseURL.
	DefaultBaseURL *url.URL
	CustomHTTPDoer HTTPDoer
	HTTPClient     *http.Client
	Middlewares    []middleware
	// If ResponseBodyInto not nil, then we will attempt to deserialize into
	// ResponseBodyInto. If Destination is a *[]byte, then it will return the body
	// as is.
	ResponseBodyInto any
	// ResponseInto copies the \*http.Response of the corresponding request into the
	// given address
	ResponseInto **http.Response
	Body         io.Reader
	// StopAtRedirect treats a 3xx answer as the final, successful response.
	// Form endpoints answer a successful submission with a redirect.
	StopAtRedirect bool
}

// middleware is exactly the same type as the Middleware type found in the [option] package,
// but it is redeclared here for circular dependency issues.
type middleware = func(*http.Request, middlewareNext) (*http.Response, error)

// middlewareNext is exactly the same type as the MiddlewareNext type found in the [option] package,
// but it is redeclared here for circular dependency issues.
type middlewareNext = func(*http.Request) (*http.Response, error)

type RequestOption interface {
	Apply(*RequestConfig) error
}

type RequestOptionFunc func(*RequestConfig) error

func (s RequestOptionFunc) Apply(r *RequestConfig) error {
	return s(r)
}

func getDefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent": fmt.Sprintf("Chessrooms/Go %s (%s; %s)", internal.PackageVersion, runtime.GOOS, runtime.GOARCH),
	}
}

// NewRequestConfig builds the request for method and path (relative to the
// base URL) and applies opts in order. A FormEncoder body is sent as a form,
// any other non-nil body as JSON.
func NewRequestConfig(ctx context.Context, method, path string, body any, dst any, opts ...RequestOption) (*RequestConfig, error) {
	var reader io.Reader
	contentType := ""

	switch b := body.(type) {
	case nil:
	case FormEncoder:
		reader = strings.NewReader(b.URLValues().Encode())
		contentType = ContentTypeForm
	case io.Reader:
		reader = b
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("requestconfig: encoding body: %w", err)
		}
		reader = bytes.NewReader(buf)
		contentType = ContentTypeJSON
	}

	u, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("requestconfig: parsing path %q: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range getDefaultHeaders() {
		req.Header.Set(k, v)
	}

	cfg := RequestConfig{
		Context:          ctx,
		Request:          req,
		HTTPClient:       http.DefaultClient,
		Body:             reader,
		ResponseBodyInto: dst,
	}

	if err := cfg.Apply(opts...); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *RequestConfig) Apply(opts ...RequestOption) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.Apply(cfg); err != nil {
			return err
		}
	}
	return nil
}

func (cfg *RequestConfig) baseURL() (*url.URL, error) {
	switch {
	case cfg.BaseURL != nil:
		return cfg.BaseURL, nil
	case cfg.DefaultBaseURL != nil:
		return cfg.DefaultBaseURL, nil
	}
	return nil, fmt.Errorf("requestconfig: no base URL configured")
}

// Execute sends the request through the middleware chain and routes the
// response through handleErrors before anything reads the body.
func (cfg *RequestConfig) Execute() error {
	base, err := cfg.baseURL()
	if err != nil {
		return err
	}
	if !strings.HasSuffix(base.Path, "/") {
		clone := *base
		clone.Path += "/"
		base = &clone
	}
	cfg.Request.URL = base.ResolveReference(cfg.Request.URL)

	if cfg.Body != nil {
		buf, err := io.ReadAll(cfg.Body)
		if err != nil {
			return err
		}
		cfg.Request.ContentLength = int64(len(buf))
		cfg.Request.Body = io.NopCloser(bytes.NewReader(buf))
		cfg.Request.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		}
	}

	ctx := cfg.Request.Context()
	if cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
		cfg.Request = cfg.Request.WithContext(ctx)
	}

	client := cfg.HTTPClient
	if cfg.StopAtRedirect {
		noFollow := *client
		noFollow.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
		client = &noFollow
	}

	handler := client.Do
	if cfg.CustomHTTPDoer != nil {
		handler = cfg.CustomHTTPDoer.Do
	}
	for i := len(cfg.Middlewares) - 1; i >= 0; i-- {
		handler = func(fn middleware, next middlewareNext) middlewareNext {
			return func(req *http.Request) (*http.Response, error) {
				return fn(req, next)
			}
		}(cfg.Middlewares[i], handler)
	}

	res, err := handler(cfg.Request)
	if err != nil {
		var apiErr *apierror.Error
		if errors.As(err, &apiErr) {
			return apiErr
		}
		return apierror.FromTransport(cfg.Request, err)
	}
	defer res.Body.Close()

	if cfg.ResponseInto != nil {
		*cfg.ResponseInto = res
	}

	if err := handleErrors(cfg.Request, res, cfg.StopAtRedirect); err != nil {
		return err
	}

	if cfg.ResponseBodyInto == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	contents, err := io.ReadAll(res.Body)
	if err != nil {
		return apierror.FromTransport(cfg.Request, err)
	}

	if raw, ok := cfg.ResponseBodyInto.(*[]byte); ok {
		*raw = contents
		return nil
	}

	if len(bytes.TrimSpace(contents)) == 0 || !isJSON(res) {
		return nil
	}

	if err := json.Unmarshal(contents, cfg.ResponseBodyInto); err != nil {
		return fmt.Errorf("error parsing response json: %w", err)
	}
	return nil
}

// handleErrors passes 2xx responses (and 3xx when redirectOK) through untouched and turns everything
// else into an *apierror.Error carrying the server's errorMessage.
func handleErrors(req *http.Request, res *http.Response, redirectOK bool) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	if redirectOK && res.StatusCode >= 300 && res.StatusCode < 400 {
		return nil
	}

	contents, err := io.ReadAll(res.Body)
	if err != nil {
		contents = nil
	}
	return apierror.FromResponse(req, res, contents)
}

func isJSON(res *http.Response) bool {
	ct := res.Header.Get("Content-Type")
	return ct == "" || strings.Contains(ct, "json")
}

func ExecuteNewRequest(ctx context.Context, method, path string, body any, dst any, opts ...RequestOption) error {
	cfg, err := NewRequestConfig(ctx, method, path, body, dst, opts...)
	if err != nil {
		return err
	}
	return cfg.Execute()
}
