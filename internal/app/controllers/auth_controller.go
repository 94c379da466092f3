package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nqanh/vku-student-manager/internal/app/models/dto"
	"github.com/nqanh/vku-student-manager/internal/app/services"
	"github.com/nqanh/vku-student-manager/internal/middleware"
	"github.com/nqanh/vku-student-manager/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService    *services.AuthService
	studentService *services.StudentService
	logger         zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, studentService *services.StudentService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:    authService,
		studentService: studentService,
		logger:         logger,
	}
}

// LoginAdmin signs in an administrator
// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) LoginAdmin(ctx *gin.Context) {
	var req dto.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid admin login payload")
		middleware.HandleAPIError(ctx, apperrors.ErrMissingFields)
		return
	}

	_, token, expiresIn, err := c.authService.LoginAdmin(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}))
}

// LoginStudent signs in a student by username or institutional email
// @Summary Student login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.StudentLoginRequest true "Student credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/students/login [post]
func (c *AuthController) LoginStudent(ctx *gin.Context) {
	var req dto.StudentLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid student login payload")
		middleware.HandleAPIError(ctx, apperrors.ErrMissingFields)
		return
	}

	student, token, expiresIn, err := c.authService.LoginStudent(ctx.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NewStudentResponse(student)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Student:     &resp,
	}))
}

// Register creates a student account from the signup form
// @Summary Student registration
// @Description Creates a student account. The email must belong to the institutional domain and the password must be confirmed.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterStudentRequest true "Registration form"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Username or email already in use"
// @Router /auth/students/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration payload")
		middleware.HandleAPIError(ctx, apperrors.ErrMissingFields)
		return
	}

	student, err := c.studentService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewStudentResponse(student)))
}
