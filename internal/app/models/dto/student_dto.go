package dto

import (
	"time"

	"github.com/nqanh/vku-student-manager/internal/app/models"
)

// CreateStudentRequest is the admin add-student form. The photo arrives as an
// optional multipart file alongside these fields.
type CreateStudentRequest struct {
	Username string `form:"username" json:"username" binding:"required" example:"nqa"`
	Email    string `form:"email" json:"email" binding:"required" example:"nqa@vku.udn.vn"`
	Password string `form:"password" json:"password" binding:"required"`
}

// UpdateStudentRequest is the edit form for both the admin edit screen and the
// student self-edit screen. A blank password keeps the stored one.
type UpdateStudentRequest struct {
	Username string `form:"username" json:"username" binding:"required" example:"nqa"`
	Email    string `form:"email" json:"email" binding:"required" example:"nqa@vku.udn.vn"`
	Password string `form:"password" json:"password"`
}

// RegisterStudentRequest is the self-registration form
type RegisterStudentRequest struct {
	Username        string `json:"username" binding:"required" example:"nqa"`
	Email           string `json:"email" binding:"required" example:"nqa@vku.udn.vn"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// StudentResponse is the wire representation of a student record.
// The password hash is never exposed.
type StudentResponse struct {
	ID        int64      `json:"id" example:"1"`
	Username  string     `json:"username" example:"nqa"`
	Email     string     `json:"email" example:"nqa@vku.udn.vn"`
	PhotoURL  string     `json:"photoUrl" example:"https://res.cloudinary.com/demo/nqa_1.jpg"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewStudentResponse maps a student model to its wire form
func NewStudentResponse(s *models.Student) StudentResponse {
	return StudentResponse{
		ID:        s.ID,
		Username:  s.Username,
		Email:     s.Email,
		PhotoURL:  s.PhotoURL,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// NewStudentListResponse maps a slice of students, preserving store order
func NewStudentListResponse(students []*models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, NewStudentResponse(s))
	}
	return out
}
