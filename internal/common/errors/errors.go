package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode is a stable, machine-readable error kind.
type ErrorCode string

const (
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidDuration  ErrorCode = "INVALID_DURATION"
	ErrCodeGiveawayNotFound ErrorCode = "GIVEAWAY_NOT_FOUND"
	ErrCodeGateway          ErrorCode = "GATEWAY_ERROR"
	ErrCodeStore            ErrorCode = "STORE_ERROR"
	ErrCodeRandomSource     ErrorCode = "RANDOM_SOURCE_ERROR"
	ErrCodeLock             ErrorCode = "LOCK_ERROR"
)

// AppError is a typed application error.
type AppError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError with the same code, so wrapped
// errors still match the package-level sentinels.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// IsNotFound reports whether the error is a "not found" kind.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeGiveawayNotFound
}

// IsValidation reports whether the error was caused by user input.
func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation || e.Code == ErrCodeInvalidDuration
}

// IsInternal reports whether the error originates from infrastructure.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeGateway ||
		e.Code == ErrCodeStore ||
		e.Code == ErrCodeRandomSource ||
		e.Code == ErrCodeLock
}

// WithDetail attaches a detail value to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates an application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// NewGiveawayNotFoundError reports a giveaway missing from the expected partition.
func NewGiveawayNotFoundError(giveawayID string) *AppError {
	return New(ErrCodeGiveawayNotFound, fmt.Sprintf("giveaway not found: %s", giveawayID)).
		WithDetail("giveaway_id", giveawayID)
}

// NewGatewayError wraps a failure of the chat gateway.
func NewGatewayError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeGateway, fmt.Sprintf("gateway operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewStoreError wraps a failure of the giveaway store.
func NewStoreError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStore, fmt.Sprintf("store operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// AsAppError returns the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
