package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nqanh/vku-student-manager/internal/app/models/dto"
	"github.com/nqanh/vku-student-manager/internal/pkg/apperrors"
)

// HandleAPIError translates application errors into HTTP responses.
// Validation problems map to 400, uniqueness conflicts to 409, upload
// failures to 502, and anything unrecognized to 500.
func HandleAPIError(c *gin.Context, err error) {
	var custom *apperrors.CustomError
	field := ""
	message := err.Error()
	if errors.As(err, &custom) {
		field = custom.Field
		message = custom.Error()
	}

	detail := func(code dto.ErrorCode) *dto.ErrorDetail {
		d := dto.NewErrorDetail(code, message)
		if field != "" {
			d = d.WithField(field)
		}
		return d
	}

	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(detail(dto.ErrorCodeStudentNotFound)))
	case errors.Is(err, apperrors.ErrUsernameTaken):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(detail(dto.ErrorCodeConflict).WithField("username")))
	case errors.Is(err, apperrors.ErrEmailTaken):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(detail(dto.ErrorCodeConflict).WithField("email")))
	case errors.Is(err, apperrors.ErrMissingFields),
		errors.Is(err, apperrors.ErrNonInstitutional),
		errors.Is(err, apperrors.ErrPasswordTooShort),
		errors.Is(err, apperrors.ErrPasswordMismatch),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail(dto.ErrorCodeValidationFailed)))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")))
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")))
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")))
	case errors.Is(err, apperrors.ErrUploadFailed):
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse(detail(dto.ErrorCodeUploadFailed)))
	case errors.Is(err, apperrors.ErrChatUpstream):
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse(detail(dto.ErrorCodeChatUpstream)))
	case errors.Is(err, apperrors.ErrPersistence):
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodePersistence, "Persistence failure")))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
