package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/logger"
)

// StatusOf maps an error kind to its HTTP status
func StatusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// errorDetail builds the response body for err
func errorDetail(err error, kind apperrors.Kind) *dto.ErrorDetail {
	var verr *apperrors.ValidationError
	var custom *apperrors.CustomError

	switch {
	case errors.As(err, &verr):
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, string(kind), "Validation failed").
			WithSeverity(dto.ErrorSeverityWarning).
			WithDetails(verr.Fields)

	case kind == apperrors.KindConflict:
		code := dto.ErrorCodeConflict
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) || errors.Is(err, apperrors.ErrAdminAlreadyExists) {
			code = dto.ErrorCodeResourceAlreadyExists
		}
		return dto.NewErrorDetail(code, string(kind), publicMessage(err, "Conflict"))

	case kind == apperrors.KindNotFound:
		return dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, string(kind), publicMessage(err, "Resource not found"))

	case kind == apperrors.KindUnauthenticated:
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			return dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, string(kind), "Invalid credentials")
		case errors.Is(err, apperrors.ErrTokenExpired):
			return dto.NewErrorDetail(dto.ErrorCodeExpiredToken, string(kind), "Token expired")
		case errors.Is(err, apperrors.ErrTokenRevoked):
			return dto.NewErrorDetail(dto.ErrorCodeInvalidToken, string(kind), "Token revoked")
		}
		return dto.NewErrorDetail(dto.ErrorCodeInvalidToken, string(kind), "Invalid token")

	case kind == apperrors.KindForbidden:
		if errors.Is(err, apperrors.ErrAccountDisabled) {
			return dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, string(kind), "Account is disabled")
		}
		return dto.NewErrorDetail(dto.ErrorCodeForbidden, string(kind), publicMessage(err, "Permission denied"))

	case kind == apperrors.KindStorage:
		msg := "File storage failed"
		if errors.As(err, &custom) {
			msg = custom.PublicMessage()
		}
		return dto.NewErrorDetail(dto.ErrorCodeStorageError, string(kind), msg).WithSeverity(dto.ErrorSeverityCritical)

	case kind == apperrors.KindDelivery:
		return dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, string(kind), "Email delivery failed")
	}

	return dto.NewErrorDetail(dto.ErrorCodeInternalServer, string(apperrors.KindInternal), "Internal server error").
		WithSeverity(dto.ErrorSeverityCritical)
}

func publicMessage(err error, fallback string) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.PublicMessage()
	}
	return fallback
}

// HandleAPIError writes the error response for err. It is the only place
// errors are turned into HTTP statuses.
func HandleAPIError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := StatusOf(kind)

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(errorDetail(err, kind)))
}

// HandleBindError answers a request whose body could not be decoded
func HandleBindError(c *gin.Context, err error) {
	detail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, string(apperrors.KindValidation), "Invalid request format").
		WithSeverity(dto.ErrorSeverityWarning).
		WithDetails(err.Error())
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
