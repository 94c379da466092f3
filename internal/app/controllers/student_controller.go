// Package controllers handles HTTP request handling
package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nqanh/vku-student-manager/internal/app/models/dto"
	"github.com/nqanh/vku-student-manager/internal/app/services"
	"github.com/nqanh/vku-student-manager/internal/middleware"
	"github.com/nqanh/vku-student-manager/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// StudentController handles student account operations
type StudentController struct {
	studentService *services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		logger:         logger,
	}
}

// optionalPhoto reads the photo file field if one was sent. The form
// is valid without it.
func optionalPhoto(ctx *gin.Context) *multipart.FileHeader {
	file, err := ctx.FormFile("photo")
	if err != nil {
		return nil
	}
	return file
}

// List returns students ordered by username
// @Summary List students
// @Description Returns all students ordered by username. An optional search term filters by substring match on username or email.
// @Tags students
// @Produce json
// @Param search query string false "Substring filter on username or email"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Security BearerAuth
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	students, err := c.studentService.List(ctx.Request.Context(), ctx.Query("search"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentListResponse(students)))
}

// GetByID returns a single student
// @Summary Get a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Security BearerAuth
// @Router /students/{id} [get]
func (c *StudentController) GetByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("invalid student id"))
		return
	}

	student, err := c.studentService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentResponse(student)))
}

// Create adds a new student account
// @Summary Create a student
// @Description Creates a student from a multipart form. The photo file is optional; when present it is uploaded before the record is written.
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Institutional email"
// @Param password formData string true "Password (minimum 6 characters)"
// @Param photo formData file false "Profile photo"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Username or email already in use"
// @Failure 502 {object} dto.ErrorResponse "Photo upload failed"
// @Security BearerAuth
// @Router /students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid create student payload")
		middleware.HandleAPIError(ctx, apperrors.ErrMissingFields)
		return
	}

	student, err := c.studentService.Create(ctx.Request.Context(), &req, optionalPhoto(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewStudentResponse(student)))
}

// Update edits an existing student account
// @Summary Update a student
// @Description Updates a student from a multipart form. A blank password keeps the stored one; a photo file replaces the stored photo.
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Student ID"
// @Param username formData string true "Username"
// @Param email formData string true "Institutional email"
// @Param password formData string false "New password (blank keeps current)"
// @Param photo formData file false "Profile photo"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Username or email already in use"
// @Security BearerAuth
// @Router /students/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("invalid student id"))
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid update student payload")
		middleware.HandleAPIError(ctx, apperrors.ErrMissingFields)
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), id, &req, optionalPhoto(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentResponse(student)))
}

// Delete removes a student account
// @Summary Delete a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Security BearerAuth
// @Router /students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("invalid student id"))
		return
	}

	if err := c.studentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Student deleted"))
}

// GetProfile returns the authenticated student's own record
// @Summary Get own profile
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Security BearerAuth
// @Router /students/me [get]
func (c *StudentController) GetProfile(ctx *gin.Context) {
	student, err := c.studentService.GetByID(ctx.Request.Context(), middleware.SubjectID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentResponse(student)))
}

// UpdateProfile edits the authenticated student's own record
// @Summary Update own profile
// @Description Same rules as the admin edit, applied to the caller's own account.
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Institutional email"
// @Param password formData string false "New password (blank keeps current)"
// @Param photo formData file false "Profile photo"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Username or email already in use"
// @Security BearerAuth
// @Router /students/me [put]
func (c *StudentController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid profile update payload")
		middleware.HandleAPIError(ctx, apperrors.ErrMissingFields)
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), middleware.SubjectID(ctx), &req, optionalPhoto(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentResponse(student)))
}
