package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nqanh/vku-student-manager/internal/app/models/dto"
	"github.com/nqanh/vku-student-manager/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handle(t *testing.T, err error) (*httptest.ResponseRecorder, *dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, err)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, &resp
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"not found", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeStudentNotFound},
		{"username taken", apperrors.ErrUsernameTaken, http.StatusConflict, dto.ErrorCodeConflict},
		{"email taken", apperrors.ErrEmailTaken, http.StatusConflict, dto.ErrorCodeConflict},
		{"missing fields", apperrors.ErrMissingFields, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"bad domain", apperrors.ErrNonInstitutional, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"short password", apperrors.ErrPasswordTooShort, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"bad credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"upload failed", apperrors.ErrUploadFailed, http.StatusBadGateway, dto.ErrorCodeUploadFailed},
		{"chat upstream", apperrors.ErrChatUpstream, http.StatusBadGateway, dto.ErrorCodeChatUpstream},
		{"persistence", apperrors.NewPersistenceError(apperrors.ErrPersistence), http.StatusInternalServerError, dto.ErrorCodePersistence},
		{"unknown", assert.AnError, http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := handle(t, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.False(t, resp.Success)
		})
	}
}

func TestHandleAPIErrorKeepsConstructorMessages(t *testing.T) {
	w, resp := handle(t, apperrors.NewValidationError("invalid student id"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "invalid student id", resp.Error.Message)

	w, resp = handle(t, apperrors.NewNotFoundError("student 9 not found"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeStudentNotFound, resp.Error.Code)
	assert.Equal(t, "student 9 not found", resp.Error.Message)
}

func TestHandleAPIErrorConflictNamesField(t *testing.T) {
	_, resp := handle(t, apperrors.ErrUsernameTaken)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "username", resp.Error.Field)

	_, resp = handle(t, apperrors.ErrEmailTaken)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "email", resp.Error.Field)
}
