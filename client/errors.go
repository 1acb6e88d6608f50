package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/kbukum/diarsplit/errors"
)

// Error is a failed call. StatusCode is zero for connection-level failures.
// Unwrap yields the server's *errors.AppError when the body carried one.
type Error struct {
	StatusCode int
	Err        error

	retryAfter time.Duration
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("client: HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("client: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// RetryAfter returns the server's Retry-After hint, zero when absent.
func (e *Error) RetryAfter() time.Duration { return e.retryAfter }

// IsRetryable reports whether err is worth another attempt: connection
// failures and server errors flagged retryable, never cancellations.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ce *Error
	if !errors.As(err, &ce) {
		return false
	}
	if ce.StatusCode == 0 {
		return true
	}
	if appErr, ok := apperrors.AsAppError(ce.Err); ok {
		return appErr.Retryable
	}
	return ce.StatusCode == http.StatusBadGateway ||
		ce.StatusCode == http.StatusServiceUnavailable ||
		ce.StatusCode == http.StatusGatewayTimeout
}

// decodeError turns a non-2xx response into an *Error. A body in the
// server's error envelope becomes an *errors.AppError; anything else keeps
// the status text.
func decodeError(resp *http.Response, body []byte) *Error {
	e := &Error{
		StatusCode: resp.StatusCode,
		retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
	var env apperrors.ErrorResponse
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Code != "" {
		e.Err = &apperrors.AppError{
			Code:       env.Error.Code,
			Message:    env.Error.Message,
			Retryable:  env.Error.Retryable,
			HTTPStatus: resp.StatusCode,
			Details:    env.Error.Details,
		}
		return e
	}
	e.Err = errors.New(http.StatusText(resp.StatusCode))
	return e
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
