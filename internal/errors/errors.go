package errors

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors used to classify failures across the service. Errors are
// never matched by string; callers mark an error with one of these classes
// and check it with errors.Is via the helpers below.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("item not found")
	ErrAlreadyExists    = errors.New("item already exists")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrDatabase         = errors.New("database error")
	ErrHTTPClient       = errors.New("http client error")
	ErrInternal         = errors.New("internal error")
	ErrSystem           = errors.New("system error")
	ErrPermissionDenied = errors.New("permission denied")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidOperation checks if the error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsDatabase checks if the error is a database error
func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}
