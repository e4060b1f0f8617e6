package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolconnector/internal/app/models/dto"
	"github.com/yigit/schoolconnector/internal/pkg/apperrors"
	"github.com/yigit/schoolconnector/internal/pkg/logger"
	"github.com/yigit/schoolconnector/internal/pkg/validation"
)

// HandleAPIError maps an error to its status code and error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := classify(err)

	var details interface{}
	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		if ce.Code != "" {
			code = dto.ErrorCode(ce.Code)
		}
		if status != http.StatusInternalServerError {
			message = ce.Error()
		}
		if len(ce.Details) > 0 {
			details = ce.Details
		}
	}

	if status >= http.StatusInternalServerError {
		log := logger.Component("http")
		log.Error().
			Err(err).
			Str("requestID", c.GetString(RequestIDKey)).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}

	detail := dto.NewErrorDetail(code, message)
	if details != nil {
		detail = detail.WithDetails(details)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, dto.ErrorCode, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid request"
	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrStudentNotFound):
		return http.StatusNotFound, dto.ErrorCodeNotFound, "Resource not found"
	case apperrors.Is(err, apperrors.ErrResourceAlreadyExists, apperrors.ErrStudentAlreadyExists, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict, "Resource already exists"
	case errors.Is(err, apperrors.ErrPreconditionFailed):
		return http.StatusPreconditionFailed, dto.ErrorCodePrecondition, "Precondition failed"
	case errors.Is(err, apperrors.ErrTemplate):
		return http.StatusBadRequest, dto.ErrorCodeTemplate, "Template error"
	case errors.Is(err, apperrors.ErrInvalidAPIKey):
		return http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Invalid or missing API key"
	case errors.Is(err, apperrors.ErrExternalService):
		return http.StatusBadGateway, dto.ErrorCodeExternalService, "Connector request failed"
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
	}
}

// HandleBindingError reports a request that failed binding or validation
func HandleBindingError(c *gin.Context, err error) {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request").
		WithDetails(validation.FieldErrors(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
