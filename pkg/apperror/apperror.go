package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrPermission         = errors.New("permission denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal server error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrRemote             = errors.New("remote resource error")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrUploadFailed       = errors.New("upload failed")
)

type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

func NewNotFound(resource, identifier string) *AppError {
	msg := fmt.Sprintf("%s not found", resource)
	details := fmt.Sprintf("%s with identifier '%s' was not found", resource, identifier)
	return NewAppError(ErrNotFound, msg, details, nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

func NewConflict(resource, field, value string) *AppError {
	msg := fmt.Sprintf("%s conflict", resource)
	details := fmt.Sprintf("%s with %s '%s' already exists", resource, field, value)
	return NewAppError(ErrConflict, msg, details, nil)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "An internal server error occurred", details, err)
}

func NewUnauthorized(details string, err error) *AppError {
	return NewAppError(ErrUnauthorized, "Invalid credentials", details, err)
}

func NewPermissionDenied(details string) *AppError {
	return NewAppError(ErrPermission, "Permission denied", details, nil)
}

func NewTooManyRequests(details string) *AppError {
	return NewAppError(ErrTooManyRequests, "Too many requests", details, nil)
}

func NewStorageUnavailable(bucket string, err error) *AppError {
	details := fmt.Sprintf("bucket '%s' could not be reached", bucket)
	return NewAppError(ErrStorageUnavailable, "Storage unavailable", details, err)
}

// RemoteError reports a failed call against the backing store. Both ErrRemote
// and the cause are reachable through errors.Is / errors.As.
type RemoteError struct {
	Op    string
	Cause error
}

func NewRemote(op string, cause error) *RemoteError {
	return &RemoteError{Op: op, Cause: cause}
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Cause)
}

func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemote, e.Cause}
}

type UploadFailed struct {
	Cause error
}

func (e *UploadFailed) Error() string {
	return fmt.Sprintf("upload failed: %v", e.Cause)
}

func (e *UploadFailed) Unwrap() []error {
	return []error{ErrUploadFailed, e.Cause}
}

type ValidationError struct {
	Field   string
	Message string
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func ToHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrPermission) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrTooManyRequests) {
		return http.StatusTooManyRequests
	}
	if errors.Is(err, ErrStorageUnavailable) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, ErrRemote) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (e *AppError) ToJSON() gin.H {
	return gin.H{
		"error":   e.BaseError.Error(),
		"message": e.Message,
	}
}

// ToJSON renders any error for an HTTP response body without leaking causes.
func ToJSON(err error) gin.H {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ToJSON()
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return gin.H{
			"error":   ErrInvalidInput.Error(),
			"message": validationErr.Error(),
			"field":   validationErr.Field,
		}
	}
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return gin.H{
			"error":   ErrRemote.Error(),
			"message": fmt.Sprintf("%s could not be completed", remoteErr.Op),
		}
	}
	if errors.Is(err, ErrUploadFailed) {
		return gin.H{
			"error":   ErrUploadFailed.Error(),
			"message": "The file could not be stored or read",
		}
	}
	return gin.H{
		"error":   ErrInternal.Error(),
		"message": "An internal server error occurred",
	}
}
