package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is a machine readable error identifier returned to clients
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken    ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken    ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidPassword ErrorCode = "INVALID_PASSWORD"
	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserExists      ErrorCode = "USER_EXISTS"
	ErrCodeInvalidEmail    ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidRole     ErrorCode = "INVALID_ROLE"
	ErrCodeInactiveUser    ErrorCode = "INACTIVE_USER"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"

	// Database errors
	ErrCodeDBError     ErrorCode = "DB_ERROR"
	ErrCodeDBNotFound  ErrorCode = "DB_NOT_FOUND"
	ErrCodeDBDuplicate ErrorCode = "DB_DUPLICATE"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Reservation errors
	ErrCodeInvertedRange     ErrorCode = "INVERTED_RANGE"
	ErrCodeOverlap           ErrorCode = "OVERLAP"
	ErrCodeRoomHotelMismatch ErrorCode = "ROOM_HOTEL_MISMATCH"
	ErrCodeRoomUnavailable   ErrorCode = "ROOM_UNAVAILABLE"
	ErrCodeRestrictedField   ErrorCode = "RESTRICTED_FIELD"

	// Upstream errors
	ErrCodeUpstream ErrorCode = "UPSTREAM_ERROR"
)

// AppError is the error type returned by services
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsAppError reports whether err wraps an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError returns the AppError wrapped by err, or nil
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err is an AppError carrying code
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// HTTPStatus maps an error code to the HTTP status sent to clients
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidation, ErrCodeRequiredField, ErrCodeInvalidFormat,
		ErrCodeInvertedRange, ErrCodeOverlap, ErrCodeRoomHotelMismatch,
		ErrCodeRoomUnavailable, ErrCodeRestrictedField, ErrCodeUserExists,
		ErrCodeDBDuplicate, ErrCodeInvalidEmail, ErrCodeInvalidRole:
		return http.StatusBadRequest
	case ErrCodeUnauthorized, ErrCodeInvalidToken, ErrCodeMissingToken,
		ErrCodeInvalidPassword, ErrCodeInactiveUser:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeDBNotFound, ErrCodeUserNotFound:
		return http.StatusNotFound
	case ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Shorthands used across services.

func Validation(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, nil)
}

func NotFound(message string) *AppError {
	return NewAppError(ErrCodeDBNotFound, message, nil)
}

func Forbidden() *AppError {
	return NewAppError(ErrCodeForbidden, "No tiene permiso para realizar esta acción.", nil)
}

func Unauthorized() *AppError {
	return NewAppError(ErrCodeUnauthorized, "Las credenciales de autenticación no se proveyeron.", nil)
}

func DB(err error) *AppError {
	return NewAppError(ErrCodeDBError, "Error de base de datos", err)
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidFormat      = errors.New("invalid format")
)
