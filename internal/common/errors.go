// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrDatabaseBusy   = errors.New("database busy")

	// Import errors.
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNoTransactions    = errors.New("no transactions found")
	ErrUnsupportedFormat = errors.New("unsupported statement format")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError carries a message meant for the person running the CLI, with the
// underlying cause kept for logs.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage returns the message of the outermost UserError in err's chain.
func UserMessage(err error) (string, bool) {
	var userErr *UserError
	if !errors.As(err, &userErr) {
		return "", false
	}
	return userErr.UserMessage, true
}
