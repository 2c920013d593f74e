package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeStore        ErrorCode = "STORE"
	ErrCodeConfigFormat ErrorCode = "CONFIG_FORMAT"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is makes sentinel comparisons work when an error has been re-wrapped with
// the same code and message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// StoreError wraps an underlying persistence failure.
func StoreError(message string, err error) *Error {
	return WrapError(ErrCodeStore, message, err)
}

// Common domain errors.
var (
	ErrTaskNotFound     = NewError(ErrCodeNotFound, "task not found")
	ErrTagNotFound      = NewError(ErrCodeNotFound, "tag not found")
	ErrEmptyTitle       = NewError(ErrCodeValidation, "task title must not be empty")
	ErrEmptySection     = NewError(ErrCodeValidation, "task section must not be empty")
	ErrEmptyTagName     = NewError(ErrCodeValidation, "tag name must not be empty")
	ErrInvalidTaskID    = NewError(ErrCodeValidation, "task id must be positive")
	ErrInvalidWeekday   = NewError(ErrCodeValidation, "weekday must be between 0 and 6")
	ErrNoFields         = NewError(ErrCodeValidation, "no fields to update")
	ErrInvalidResetTime = NewError(ErrCodeConfigFormat, "reset time must be in HH:MM format")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
