package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/pkg/apperrors"
	"github.com/emrecan/internhub/internal/pkg/logger"
)

// HandleAPIError maps application errors to HTTP responses. Every controller
// funnels its service errors through here so the status codes and error
// codes stay consistent across the API.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classify(err)

	// Carry CustomError context into the response
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) {
		if customErr.Message != "" {
			detail.Message = customErr.Message
		}
		if customErr.Details != nil {
			detail = detail.WithDetails(customErr.Details)
		}
		if customErr.Code != "" {
			detail.Code = dto.ErrorCode(customErr.Code)
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, *dto.ErrorDetail) {
	switch {
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")
	case errors.Is(err, apperrors.ErrCohortMismatch):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, "Cohort does not belong to the given college")
	case errors.Is(err, apperrors.ErrRoleNotSelectable):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeRoleNotSelectable, "This role cannot be self-selected")
	case errors.Is(err, apperrors.ErrGitLabTokenRejected):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, "GitLab token was rejected")

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrIdentityUnknown):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeOAuthFailed, "Identity could not be resolved")

	case errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account is disabled")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Permission denied")

	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrCollegeNotFound,
		apperrors.ErrCohortNotFound,
		apperrors.ErrRequestNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrGitLabNotConnected):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "GitLab account is not connected")

	case errors.Is(err, apperrors.ErrRequestAlreadyDecided):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeRequestAlreadyDecided, "Join request has already been decided")
	case errors.Is(err, apperrors.ErrCohortFull):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeCohortFull, "Cohort is at capacity")
	case errors.Is(err, apperrors.ErrOnboardingComplete):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeOnboardingComplete, "Onboarding has already been completed")
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, "Invalid onboarding transition")
	case errors.Is(err, apperrors.ErrIdentityExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Identity already registered")
	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrResourceAlreadyExists, apperrors.ErrRoleAlreadyAssigned):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Conflict")

	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
