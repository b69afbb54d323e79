package agent

import (
	"errors"
	"fmt"
)

// Category is the normalized failure taxonomy for agent calls.
type Category string

const (
	CategoryTimeout        Category = "timeout"
	CategoryNotFound       Category = "not_found"
	CategoryAuthentication Category = "authentication"
	CategoryOutage         Category = "outage"
	CategoryRateLimited    Category = "rate_limited"
	CategoryBadData        Category = "bad_data"
	CategoryRejected       Category = "rejected"
	CategoryInternal       Category = "internal"
)

// Error is returned by every Client method. Retryable is derived from the
// category: timeouts, outages and rate limiting are transient.
type Error struct {
	Category   Category
	Op         string
	StatusCode int
	Message    string
	Underlying error
	Retryable  bool
}

func NewError(category Category, op, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Op:         op,
		Message:    message,
		Underlying: underlying,
		Retryable:  category == CategoryTimeout || category == CategoryOutage || category == CategoryRateLimited,
	}
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("agent %s [%s]: %s: %v", e.Op, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("agent %s [%s]: %s", e.Op, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// CategoryOf returns the category of an agent error, CategoryInternal otherwise.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return CategoryInternal
}

// IsNotFound reports whether the agent answered that the record does not exist.
func IsNotFound(err error) bool {
	return CategoryOf(err) == CategoryNotFound
}

func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}
