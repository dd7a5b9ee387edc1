package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error independently of its message
type Kind string

const (
	KindNotFound       Kind = "NOT_FOUND"
	KindDuplicateKey   Kind = "DUPLICATE_KEY"
	KindAlreadySettled Kind = "ALREADY_SETTLED"
	KindInvalidAmount  Kind = "INVALID_AMOUNT"
	KindInvalidInput   Kind = "INVALID_INPUT"
	KindBadRequest     Kind = "BAD_REQUEST"
	KindRateLimited    Kind = "RATE_LIMITED"
	KindInternal       Kind = "INTERNAL"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Kind    Kind         `json:"kind"`
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is reports whether target is an AppError of the same kind, so the
// sentinels below can be matched with errors.Is regardless of message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrNotFound       = &AppError{Kind: KindNotFound, Code: http.StatusNotFound, Message: "Resource not found"}
	ErrDuplicateKey   = &AppError{Kind: KindDuplicateKey, Code: http.StatusConflict, Message: "Resource already exists"}
	ErrAlreadySettled = &AppError{Kind: KindAlreadySettled, Code: http.StatusConflict, Message: "Invoice is already settled"}
	ErrInvalidAmount  = &AppError{Kind: KindInvalidAmount, Code: http.StatusUnprocessableEntity, Message: "Invalid amount"}
	ErrInvalidInput   = &AppError{Kind: KindInvalidInput, Code: http.StatusUnprocessableEntity, Message: "Invalid input"}
	ErrBadRequest     = &AppError{Kind: KindBadRequest, Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Kind: KindInternal, Code: http.StatusInternalServerError, Message: "Internal server error"}
)

// NewAppError creates a new application error
func NewAppError(kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Kind:    KindInvalidInput,
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewDuplicateKeyError reports a unique business key collision
func NewDuplicateKeyError(resource, key string) *AppError {
	return &AppError{
		Kind:    KindDuplicateKey,
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("%s with number %s already exists", resource, key),
	}
}

// NewAlreadySettledError reports a mutation attempted on a fully paid invoice
func NewAlreadySettledError(invoiceNumber string) *AppError {
	return &AppError{
		Kind:    KindAlreadySettled,
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("Invoice with number %s is already PAID", invoiceNumber),
	}
}

// NewInvalidAmountError creates an invalid amount error with a custom message
func NewInvalidAmountError(message string) *AppError {
	return &AppError{
		Kind:    KindInvalidAmount,
		Code:    http.StatusUnprocessableEntity,
		Message: message,
	}
}

// NewInvalidInputError creates an invalid input error with a custom message
func NewInvalidInputError(message string) *AppError {
	return &AppError{
		Kind:    KindInvalidInput,
		Code:    http.StatusUnprocessableEntity,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Kind:    KindBadRequest,
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Kind:    KindInternal,
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
