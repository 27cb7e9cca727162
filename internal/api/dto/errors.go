package dto

// APIError is the body of every non-2xx response.
type APIError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// Error codes
const (
	ErrCodeNotFound          = "not_found"
	ErrCodeBadRequest        = "bad_request"
	ErrCodeInternalError     = "internal_error"
	ErrCodeValidation        = "validation_error"
	ErrCodeUnsupportedFormat = "unsupported_format"
)

// NewAPIError creates an APIError.
func NewAPIError(code, message string, details ...string) APIError {
	return APIError{Code: code, Message: message, Details: details}
}

// NotFoundError reports a missing profile or run.
func NotFoundError(resource string) APIError {
	return NewAPIError(ErrCodeNotFound, resource+" not found")
}

// BadRequestError reports a body or parameter that could not be read.
func BadRequestError(message string) APIError {
	return NewAPIError(ErrCodeBadRequest, message)
}

// InternalError hides storage failures from clients.
func InternalError() APIError {
	return NewAPIError(ErrCodeInternalError, "an internal error occurred")
}

// ValidationError reports a request the optimizer rejected, such as an
// unknown town or a negative quantity.
func ValidationError(message string, details ...string) APIError {
	return NewAPIError(ErrCodeValidation, message, details...)
}

// UnsupportedFormatError reports an import or export format other than csv
// and json.
func UnsupportedFormatError(format string) APIError {
	return NewAPIError(ErrCodeUnsupportedFormat, "unsupported format "+format, "csv", "json")
}
