package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidAPIKey = errors.New("invalid api key")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Lifecycle errors
	ErrPreconditionFailed = errors.New("precondition failed")

	// Collaborator errors
	ErrExternalService = errors.New("external service failure")
	ErrTemplate        = errors.New("template error")
)

// Student Errors
var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrStudentAlreadyExists = errors.New("student already exists")
)

// Application error codes, shared with the admin UI.
const (
	CodeInvalidRequest                 = "error.schoolModule.invalidRequest"
	CodeStudentAlreadyExists           = "error.schoolModule.studentAlreadyExists"
	CodeStudentNotFound                = "error.schoolModule.studentNotFound"
	CodeStudentAlreadyDeleted          = "error.schoolModule.studentAlreadyDeleted"
	CodeNoRelationship                 = "error.schoolModule.noRelationship"
	CodeNoActiveRelationship           = "error.schoolModule.noActiveRelationship"
	CodeTemplateNotFound               = "error.schoolModule.templateNotFound"
	CodeTemplateInvalid                = "error.schoolModule.templateInvalid"
	CodeOnboardingPDFNotUTF8Compatible = "error.schoolModule.onboardingPDFNotUTF8Compatible"
	CodeInvalidLogo                    = "error.schoolModule.invalidLogo"
	CodeConnectorFailure               = "error.schoolModule.connectorFailure"
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

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewPreconditionError reports an operation attempted in the wrong lifecycle stage.
func NewPreconditionError(code, message string) *CustomError {
	return NewCustomError(ErrPreconditionFailed, message).WithCode(code)
}

// NewTemplateError reports a missing or malformed on-disk template.
func NewTemplateError(code, message string) *CustomError {
	return NewCustomError(ErrTemplate, message).WithCode(code)
}

// NewValidationError reports invalid input; details carry per-field or per-row problems.
func NewValidationError(message string, details map[string]interface{}) *CustomError {
	return NewCustomError(ErrValidationFailed, message).
		WithCode(CodeInvalidRequest).
		WithDetails(details)
}

// Is reports whether err matches target or any of errList
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

// WithStatusMsg adds a user-friendly status message
func (e *CustomError) WithStatusMsg(msg string) *CustomError {
	e.StatusMsg = msg
	return e
}

// CodeOf returns the application code carried by err, if any.
func CodeOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
