package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when the email is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail is returned when another user already owns the email.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrNoFieldsToUpdate is returned when an update carries none of the mutable fields.
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	// ErrAuthentication is returned when a stored password hash cannot be compared.
	ErrAuthentication = errors.New("authentication error")
	// ErrInternal marks failures that are neither storage nor caller errors.
	ErrInternal = errors.New("internal error")
)

// UploadError is returned by the photo upload filter.
type UploadError struct {
	Message  string
	TooLarge bool
}

func (e *UploadError) Error() string {
	return e.Message
}

// NewUploadError creates an upload rejection.
func NewUploadError(message string) *UploadError {
	return &UploadError{Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Anything unknown is treated as a datastore failure and hidden behind a generic message.
func MapErrorToHTTP(err error) *HTTPError {
	var uploadErr *UploadError
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusBadRequest, "Email already exists", "DUPLICATE_EMAIL")
	case errors.Is(err, ErrNoFieldsToUpdate):
		return NewHTTPError(http.StatusBadRequest, ErrNoFieldsToUpdate.Error(), "NO_FIELDS_TO_UPDATE")
	case errors.Is(err, ErrAuthentication):
		return NewHTTPError(http.StatusInternalServerError, "Authentication error", "AUTHENTICATION_ERROR")
	case errors.Is(err, ErrInternal):
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	case errors.As(err, &uploadErr):
		if uploadErr.TooLarge {
			return NewHTTPError(http.StatusRequestEntityTooLarge, uploadErr.Message, "FILE_TOO_LARGE")
		}
		return NewHTTPError(http.StatusBadRequest, uploadErr.Message, "UPLOAD_REJECTED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Database error", "DATABASE_ERROR")
	}
}
