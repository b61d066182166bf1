package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// InternalError is the error type carried through the service. It keeps the
// low-level cause for logs, a user-presentable hint, and optional structured
// details that are safe to return to API clients.
type InternalError struct {
	cause             error
	hint              string
	reportableDetails map[string]any
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	return e.cause.Error()
}

// Unwrap exposes the underlying cause so errors.Is keeps working against
// the sentinel classes.
func (e *InternalError) Unwrap() error {
	return e.cause
}

// Hint returns the user-presentable hint, if any.
func (e *InternalError) Hint() string {
	return e.hint
}

// ReportableDetails returns structured details safe to surface to clients.
func (e *InternalError) ReportableDetails() map[string]any {
	return e.reportableDetails
}

// Builder accumulates error context before the error is marked with a class.
type Builder struct {
	err *InternalError
}

// NewError starts building an error from a message.
func NewError(msg string) *Builder {
	return &Builder{err: &InternalError{cause: errors.New(msg)}}
}

// NewErrorf starts building an error from a format string.
func NewErrorf(format string, args ...any) *Builder {
	return &Builder{err: &InternalError{cause: errors.Newf(format, args...)}}
}

// WithError starts building an error that wraps an existing one.
func WithError(err error) *Builder {
	if err == nil {
		err = errors.New("unknown error")
	}
	return &Builder{err: &InternalError{cause: err}}
}

// WithHint attaches a user-presentable hint.
func (b *Builder) WithHint(hint string) *Builder {
	b.err.hint = hint
	return b
}

// WithHintf attaches a formatted user-presentable hint.
func (b *Builder) WithHintf(format string, args ...any) *Builder {
	b.err.hint = fmt.Sprintf(format, args...)
	return b
}

// WithReportableDetails attaches structured details that will be included in
// API error responses.
func (b *Builder) WithReportableDetails(details map[string]any) *Builder {
	b.err.reportableDetails = details
	return b
}

// Mark finalizes the error with a classification sentinel. The returned error
// satisfies errors.Is for both the original cause and the sentinel.
func (b *Builder) Mark(class error) error {
	b.err.cause = errors.Mark(b.err.cause, class)
	return b.err
}

// Hint extracts the hint from an error chain, if present.
func Hint(err error) string {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.Hint()
	}
	return ""
}

// ReportableDetails extracts structured details from an error chain.
func ReportableDetails(err error) map[string]any {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.ReportableDetails()
	}
	return nil
}
