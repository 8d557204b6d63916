package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Storage errors
	ErrStorage = errors.New("storage operation failed")
)

// User / identity errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrIdentityExists  = errors.New("identity already registered")
	ErrIdentityUnknown = errors.New("identity could not be resolved")
)

// Onboarding errors
var (
	ErrOnboardingComplete  = errors.New("onboarding already completed")
	ErrInvalidTransition   = errors.New("invalid onboarding transition")
	ErrRoleNotSelectable   = errors.New("role cannot be self-selected")
	ErrRoleAlreadyAssigned = errors.New("identity already has an active role")
)

// Catalog errors
var (
	ErrCollegeNotFound = errors.New("college not found")
	ErrCohortNotFound  = errors.New("cohort not found")
	ErrCohortMismatch  = errors.New("cohort does not belong to the given college")
)

// Join request / approval errors
var (
	ErrRequestNotFound = errors.New("join request not found")
	// ErrRequestAlreadyDecided is expected under concurrent decisions and is
	// surfaced distinctly so the caller can explain who won.
	ErrRequestAlreadyDecided = errors.New("join request already decided")
	// ErrCohortFull means the capacity check failed at decision time; the
	// request stays pending.
	ErrCohortFull = errors.New("cohort is at capacity")
)

// Activity tracking errors
var (
	ErrGitLabNotConnected = errors.New("gitlab account not connected")
	// ErrGitLabTokenRejected means the provided token could not read the
	// account's event feed; the connection is not stored.
	ErrGitLabTokenRejected = errors.New("gitlab token rejected")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for a failed field validation.
// The details map carries field name -> human readable problem.
func NewValidationError(message string, fields map[string]interface{}) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: fields,
	}
}

// Is returns whether target matches err or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
