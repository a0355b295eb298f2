package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the requested resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates a uniqueness conflict.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeInvalidInput indicates malformed or invalid request data.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field or parameter was absent.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeUnauthorized indicates the request lacks valid authentication.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInvalidToken indicates the session token failed validation.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	// ErrCodeInternal indicates an unexpected server-side failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeDatabaseError indicates a database operation failed.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	// ErrCodeServiceUnavailable indicates a dependency is unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)
