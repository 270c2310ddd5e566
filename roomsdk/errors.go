package roomsdk

import (
	"errors"

	"github.com/hilthontt/chessrooms/roomsdk/internal/apierror"
)

// Error is returned for every request that failed after it was handed to
// the transport: a non-2xx response or a request that never completed. Use
// errors.As to inspect it; Error() is the server's errorMessage, or a
// generic message when the server did not send one.
type Error = apierror.Error

var (
	ErrMissingIDParameter = errors.New("missing required id parameter")
	ErrMissingName        = errors.New("room name cannot be blank")
	ErrMissingPassword    = errors.New("password cannot be blank")
	ErrMalformedResponse  = errors.New("malformed response from room server")
)

// Message returns the text to show a user for err: the server's
// errorMessage for API errors, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.ErrorMessage
	}
	return err.Error()
}
