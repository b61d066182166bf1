package errors

import "net/http"

// ErrorDetail is the machine-readable part of an API error response.
type ErrorDetail struct {
	Message  string         `json:"message"`
	Internal string         `json:"internal_error,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the JSON body returned for every failed API request.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse builds the API response body for an error. The hint is
// preferred as the client-facing message; the raw error string is kept under
// internal_error for debugging.
func NewErrorResponse(err error) *ErrorResponse {
	detail := ErrorDetail{
		Message:  Hint(err),
		Internal: err.Error(),
		Details:  ReportableDetails(err),
	}
	if detail.Message == "" {
		detail.Message = err.Error()
		detail.Internal = ""
	}
	return &ErrorResponse{Success: false, Error: detail}
}

// HTTPStatusFromError maps an error classification to an HTTP status code.
func HTTPStatusFromError(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsAlreadyExists(err):
		return http.StatusConflict
	case IsValidation(err), IsInvalidOperation(err):
		return http.StatusBadRequest
	case Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
