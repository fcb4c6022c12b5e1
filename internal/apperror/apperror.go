// Package apperror defines the error taxonomy shared by services and handlers.
// Every client-visible failure is an *AppError whose Message is safe to send;
// the wrapped Err stays server-side and only reaches the logs.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType int

const (
	InternalError ErrorType = iota
	// DatabaseError is an unexpected storage failure.
	DatabaseError
	// ValidationError covers malformed input and duplicate registrations.
	ValidationError
	// CaptchaError is a captcha mismatch on login.
	CaptchaError
	// AuthError is a bad username/password pair.
	AuthError
	// UnauthorizedError means no authenticated session is present.
	UnauthorizedError
	// ConflictError is a uniqueness violation outside registration.
	ConflictError
	// RateLimitError means the client exceeded its request budget.
	RateLimitError
)

type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError, CaptchaError:
		return http.StatusBadRequest
	case AuthError, UnauthorizedError:
		return http.StatusUnauthorized
	case ConflictError:
		return http.StatusConflict
	case RateLimitError:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

func New(errType ErrorType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

func NewInternalError(message string, err error) *AppError {
	return New(InternalError, message, err)
}

func NewDatabaseError(message string, err error) *AppError {
	return New(DatabaseError, message, err)
}

func NewValidationError(message string, err error) *AppError {
	return New(ValidationError, message, err)
}

func NewCaptchaError(message string, err error) *AppError {
	return New(CaptchaError, message, err)
}

func NewAuthError(message string, err error) *AppError {
	return New(AuthError, message, err)
}

func NewUnauthorizedError(message string, err error) *AppError {
	return New(UnauthorizedError, message, err)
}

func NewConflictError(message string, err error) *AppError {
	return New(ConflictError, message, err)
}

func NewRateLimitError(message string) *AppError {
	return New(RateLimitError, message, nil)
}

// FromError finds an *AppError anywhere in err's chain.
func FromError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries an AppError of the given type.
func Is(err error, errType ErrorType) bool {
	appErr, ok := FromError(err)
	return ok && appErr.Type == errType
}
