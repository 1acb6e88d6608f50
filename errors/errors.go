package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Diarization table errors ---

// MissingColumns creates an error naming the required columns absent from the table header.
func MissingColumns(columns []string) *AppError {
	return &AppError{
		Code:       ErrCodeMissingColumns,
		Message:    fmt.Sprintf("Diarization table is missing required columns: %s", strings.Join(columns, ", ")),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"columns": columns},
	}
}

// EmptyData creates an error for a diarization table without rows.
func EmptyData() *AppError {
	return &AppError{
		Code:       ErrCodeEmptyData,
		Message:    "Diarization table contains no rows.",
		HTTPStatus: http.StatusBadRequest,
	}
}

// NegativeTime creates an error for the first row holding a negative timestamp.
func NegativeTime(row int, start, end float64) *AppError {
	return &AppError{
		Code:       ErrCodeNegativeTime,
		Message:    fmt.Sprintf("Row %d has a negative timestamp.", row),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"row": row, "start": start, "end": end},
	}
}

// InvalidRange creates an error for the first row whose end is not after its start.
func InvalidRange(row int, start, end float64) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidRange,
		Message:    fmt.Sprintf("Row %d has end time %g not after start time %g.", row, end, start),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"row": row, "start": start, "end": end},
	}
}

// --- Media and batch errors ---

// UnreadableMedia creates an error for a media source that could not be opened.
func UnreadableMedia(name string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeUnreadableMedia,
		Message:    fmt.Sprintf("Unable to read media file %s.", name),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"media": name},
		Cause:      cause,
	}
}

// Processing creates an error for a segment that failed to extract or write.
// A negative row means the failure happened while preparing speaker output.
// The batch is aborted when this is returned.
func Processing(row int, speaker string, cause error) *AppError {
	e := &AppError{
		Code:       ErrCodeProcessing,
		Message:    fmt.Sprintf("Failed to process segment at row %d.", row),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"row": row},
		Cause:      cause,
	}
	if row < 0 {
		e.Message = fmt.Sprintf("Failed to prepare output for speaker %q.", speaker)
		delete(e.Details, "row")
	}
	if speaker != "" {
		e.Details["speaker"] = speaker
	}
	return e
}

// Archive creates an error for a failure while packaging the output tree.
func Archive(cause error) *AppError {
	return &AppError{
		Code:       ErrCodeArchive,
		Message:    "Failed to package segments into an archive.",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Timeout creates a new AppError for an operation that ran past its deadline.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// ServiceBusy creates an error for a request rejected because the maximum
// number of batches is already running.
func ServiceBusy(cause error) *AppError {
	return &AppError{
		Code: ErrCodeServiceBusy, Message: "The service is busy processing other files. Please try again shortly.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true, Cause: cause,
	}
}

// RateLimited creates an error for a client over its request budget.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many requests. Please slow down.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}

// PayloadTooLarge creates an error for a request body over limit bytes.
func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Code: ErrCodePayloadTooLarge, Message: "The uploaded files are too large.",
		HTTPStatus: http.StatusRequestEntityTooLarge, Retryable: false,
		Details: map[string]any{"limit_bytes": limit},
	}
}

// --- Edge errors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// InvalidFormat creates a new AppError for an invalid field format.
func InvalidFormat(field, expectedFormat string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidFormat, Message: fmt.Sprintf("Invalid format for %s. Expected: %s", field, expectedFormat),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field, "expected_format": expectedFormat},
	}
}

// NotFound creates a new AppError for an unknown route or resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Details: map[string]any{"resource": resource},
	}
}

// Unauthorized creates a new AppError for unauthorized access.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// TokenExpired creates a new AppError for an expired authentication token.
func TokenExpired() *AppError {
	return &AppError{
		Code: ErrCodeTokenExpired, Message: "Your session has expired. Please log in again.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// InvalidToken creates a new AppError for an invalid authentication token.
func InvalidToken() *AppError {
	return &AppError{
		Code: ErrCodeInvalidToken, Message: "Invalid authentication token. Please log in again.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
