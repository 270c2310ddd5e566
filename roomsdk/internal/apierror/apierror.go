package apierror

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// messageField is the key the room server uses for failure descriptions.
const messageField = "errorMessage"

// Error represents a failed call to the room server. Both transport failures
// (StatusCode == 0) and non-2xx responses are reported with this type so
// callers only ever handle one failure shape.
type Error struct {
	// ErrorMessage is surfaced to the user verbatim.
	ErrorMessage string
	StatusCode   int
	// RawJSON holds the response body when it was received.
	RawJSON  string
	Request  *http.Request
	Response *http.Response

	cause error
}

func (r *Error) Error() string {
	return r.ErrorMessage
}

func (r *Error) Unwrap() error {
	return r.cause
}

// DetailedError includes the method, URL and status, for logs rather than
// for the user.
func (r *Error) DetailedError() string {
	var b strings.Builder
	if r.Request != nil {
		fmt.Fprintf(&b, "%s %q: ", r.Request.Method, r.Request.URL.String())
	}
	if r.StatusCode != 0 {
		fmt.Fprintf(&b, "%d %s: ", r.StatusCode, http.StatusText(r.StatusCode))
	}
	b.WriteString(r.ErrorMessage)
	return b.String()
}

// IsTransport reports whether the request never produced a response.
func (r *Error) IsTransport() bool {
	return r.StatusCode == 0
}

// GenericMessage is used whenever a failed response carries no usable
// errorMessage.
func GenericMessage(statusCode int) string {
	if statusCode == 0 {
		return "could not reach the room server"
	}
	return fmt.Sprintf("the room server rejected the request (%d %s)", statusCode, http.StatusText(statusCode))
}

// FromResponse builds an Error from a non-2xx response body. It never fails:
// an empty, non-JSON or field-less body falls back to GenericMessage.
func FromResponse(req *http.Request, res *http.Response, body []byte) *Error {
	msg := ""
	if gjson.ValidBytes(body) {
		field := gjson.GetBytes(body, messageField)
		if field.Type == gjson.String {
			msg = strings.TrimSpace(field.String())
		}
	}
	if msg == "" {
		msg = GenericMessage(res.StatusCode)
	}

	return &Error{
		ErrorMessage: msg,
		StatusCode:   res.StatusCode,
		RawJSON:      string(body),
		Request:      req,
		Response:     res,
	}
}

// FromTransport wraps an error returned by the HTTP client.
func FromTransport(req *http.Request, err error) *Error {
	return &Error{
		ErrorMessage: GenericMessage(0),
		Request:      req,
		cause:        err,
	}
}

// Local reports a failure detected on the client before the request was
// sent, such as a tripped rate limit.
func Local(req *http.Request, msg string, cause error) *Error {
	return &Error{
		ErrorMessage: msg,
		Request:      req,
		cause:        cause,
	}
}
