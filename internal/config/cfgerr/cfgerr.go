// Package cfgerr defines the error model for configuration loading.
//
// Every failure encountered while reading a configuration file is wrapped
// in an Error pairing a short context phrase with the underlying cause.
// Failures that arise from running arbitrary user script code additionally
// carry a formatted stack trace; anticipated failures (bad option, bad
// syntax, I/O) do not.
package cfgerr

import (
	"fmt"
	"strings"
)

// Error represents a single failure encountered while loading configuration.
type Error struct {
	// Text is a short context phrase shown to the user, e.g. "While parsing".
	Text string

	// Err is the underlying cause.
	Err error

	// Traceback is a formatted stack trace. It is empty for anticipated
	// failure kinds and non-empty only for failures arising from arbitrary
	// user-script execution.
	Traceback string
}

// New creates an Error without a traceback.
func New(text string, err error) *Error {
	return &Error{Text: text, Err: err}
}

// WithTraceback creates an Error carrying a formatted stack trace.
func WithTraceback(text string, err error, traceback string) *Error {
	return &Error{Text: text, Err: err, Traceback: traceback}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Text
	}
	return fmt.Sprintf("%s: %s", e.Text, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// FileErrors aggregates the errors from one configuration file.
// It is raised to halt loading when a file is unreadable or malformed.
// Per-statement script failures accumulate on the API object instead and
// never raise a FileErrors.
type FileErrors struct {
	// Basename is the file the errors came from, e.g. "autoconfig.yml".
	Basename string

	// Errors holds the individual failures in occurrence order.
	Errors []*Error
}

// NewFileErrors creates an aggregate for the given file.
func NewFileErrors(basename string, errors ...*Error) *FileErrors {
	return &FileErrors{Basename: basename, Errors: errors}
}

// Error implements the error interface.
func (e *FileErrors) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("errors occurred while reading %s", e.Basename)
	}

	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("errors occurred while reading %s:\n  - %s",
		e.Basename, strings.Join(msgs, "\n  - "))
}

// Len returns the number of aggregated errors.
func (e *FileErrors) Len() int {
	return len(e.Errors)
}
