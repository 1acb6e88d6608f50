package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Diarization table errors
const (
	// ErrCodeMissingColumns indicates the table lacks one of start, end or speaker.
	ErrCodeMissingColumns ErrorCode = "MISSING_COLUMNS"
	// ErrCodeEmptyData indicates the table has a header but no rows.
	ErrCodeEmptyData ErrorCode = "EMPTY_DATA"
	// ErrCodeNegativeTime indicates a row with a negative start or end.
	ErrCodeNegativeTime ErrorCode = "NEGATIVE_TIME"
	// ErrCodeInvalidRange indicates a row whose end is not after its start.
	ErrCodeInvalidRange ErrorCode = "INVALID_RANGE"
)

// Media and batch errors
const (
	// ErrCodeUnreadableMedia indicates the media source could not be opened or decoded.
	ErrCodeUnreadableMedia ErrorCode = "UNREADABLE_MEDIA"
	// ErrCodeProcessing indicates a segment could not be extracted or written.
	ErrCodeProcessing ErrorCode = "PROCESSING_FAILED"
	// ErrCodeArchive indicates the output tree could not be packaged.
	ErrCodeArchive ErrorCode = "ARCHIVE_FAILED"
	// ErrCodeTimeout indicates an operation ran past its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeServiceBusy indicates every batch slot is taken.
	ErrCodeServiceBusy ErrorCode = "SERVICE_BUSY"
	// ErrCodeRateLimited indicates the client sent too many requests.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodePayloadTooLarge indicates an upload over the configured size limit.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidFormat indicates a field has an invalid format.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// Authentication errors
const (
	// ErrCodeUnauthorized indicates the request is unauthorized.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeTokenExpired indicates the authentication token has expired.
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	// ErrCodeInvalidToken indicates the authentication token is invalid.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeNotFound indicates the requested route or resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:     true,
	ErrCodeServiceBusy: true,
	ErrCodeRateLimited: true,
	ErrCodeInternal:    false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
