package weread

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the cookie was rejected by WeRead.
var ErrUnauthorized = errors.New("weread rejected the cookie (expired or invalid)")

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("weread: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("weread: unexpected status %d: %s", e.StatusCode, e.Body)
}

// APIError is an application-level error reported in a 200 response body
// through the errcode/errmsg pair.
type APIError struct {
	Code    int64
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("weread: errcode %d: %s", e.Code, e.Message)
}
