package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	// Pipeline codes, surfaced in the extraction envelope.
	ErrCodeInvalidDomain     = "INVALID_DOMAIN"
	ErrCodeMissingPlannerID  = "MISSING_PLANNER_ID"
	ErrCodeLaunchFailed      = "LAUNCH_FAILED"
	ErrCodeNavigationTimeout = "NAVIGATION_TIMEOUT"
	ErrCodeNavigationFailed  = "NAVIGATION_FAILED"
	ErrCodeModalTimeout      = "MODAL_TIMEOUT"
	ErrCodeParse             = "PARSE_ERROR"

	// Transport codes, produced by the HTTP layer.
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeBusy         = "BUSY"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
}

// ExtractError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ExtractError struct {
	Code    string
	Message string
	Stage   string
	Err     error // wrapped original error
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// NewExtractError creates a new ExtractError.
func NewExtractError(code, message string, err error) *ExtractError {
	return &ExtractError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ExtractError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message, Stage: e.Stage}
}

// IsInputError reports whether code describes a caller mistake that was
// rejected before any browser resource was allocated.
func IsInputError(code string) bool {
	switch code {
	case ErrCodeInvalidDomain, ErrCodeMissingPlannerID, ErrCodeInvalidInput:
		return true
	}
	return false
}
