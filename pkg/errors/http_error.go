package errors

import (
	"fmt"
	"net/http"
)

// HttpError carries an HTTP status code and a user-facing message alongside
// the wrapped internal error. Controllers pass it to utils.ErrorResponse,
// which renders the code and message and logs the rest.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// The four kinds of failure the dispatch core distinguishes: caller mistakes,
// missing records, violated state preconditions and unreachable backends.

func NewValidationError(format string, args ...interface{}) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) *HttpError {
	return &HttpError{Code: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...interface{}) *HttpError {
	return &HttpError{Code: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

// NewUpstreamError marks a backing-store or directory failure. The caller may
// retry; this service never does.
func NewUpstreamError(message string, err error) *HttpError {
	return &HttpError{Code: http.StatusServiceUnavailable, Message: message, Err: err}
}

func NewInternalError(message string) *HttpError {
	return &HttpError{Code: http.StatusInternalServerError, Message: message}
}
