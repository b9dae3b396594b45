package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeInvalid         ErrorCode = "INVALID"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeInternal        ErrorCode = "INTERNAL"
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

// Store-level sentinels. Use cases replace them with the id-bearing errors below.
var (
	ErrUserNotFound   = NewError(ErrCodeNotFound, "user not found")
	ErrTaskNotFound   = NewError(ErrCodeNotFound, "task not found")
	ErrInvalidPayload = NewError(ErrCodeInvalid, "invalid payload")
)

// Request-level rejections raised before a handler runs.
var (
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests")
)

// TaskNotFound reports a task id that does not resolve to a stored task.
func TaskNotFound(id int64) *Error {
	return NewError(ErrCodeNotFound, fmt.Sprintf("Task not found with id: %d", id))
}

// UserNotFound reports a user id that does not resolve to a stored user.
func UserNotFound(id int64) *Error {
	return NewError(ErrCodeNotFound, fmt.Sprintf("User not found with id: %d", id))
}

// Invalid builds a validation error carrying a client-facing message.
func Invalid(message string) *Error {
	return NewError(ErrCodeInvalid, message)
}

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// Message returns the client-facing part of err: the domain message when err
// carries one, the full error text otherwise.
func Message(err error) string {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
