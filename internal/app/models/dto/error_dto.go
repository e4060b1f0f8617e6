package dto

import (
	"time"
)

// ErrorCode mirrors the application codes of apperrors for HTTP-level failures
// that never reach a service.
type ErrorCode string

// Transport-level error codes
const (
	ErrorCodeUnauthorized     ErrorCode = "error.schoolModule.unauthorized"
	ErrorCodeNotFound         ErrorCode = "error.schoolModule.notFound"
	ErrorCodeValidationFailed ErrorCode = "error.schoolModule.invalidRequest"
	ErrorCodePrecondition     ErrorCode = "error.schoolModule.preconditionFailed"
	ErrorCodeConflict         ErrorCode = "error.schoolModule.conflict"
	ErrorCodeTemplate         ErrorCode = "error.schoolModule.templateError"
	ErrorCodeExternalService  ErrorCode = "error.schoolModule.connectorFailure"
	ErrorCodeInternalServer   ErrorCode = "error.schoolModule.internal"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code    ErrorCode   `json:"code" example:"error.schoolModule.noActiveRelationship"`
	Message string      `json:"message" example:"The student has no active relationship"`
	Field   string      `json:"field,omitempty" example:"givenname"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:    code,
		Message: message,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}
