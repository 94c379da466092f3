package services

import (
	"context"
	"errors"
	"strings"

	"github.com/nqanh/vku-student-manager/internal/app/models"
	"github.com/nqanh/vku-student-manager/internal/pkg/apperrors"
	"github.com/nqanh/vku-student-manager/internal/pkg/auth"
	"github.com/nqanh/vku-student-manager/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// AdminStore is the persistence surface the auth service needs for
// administrator lookups.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// StudentAuthStore is the lookup surface used when authenticating
// students by identifier.
type StudentAuthStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	GetByUsername(ctx context.Context, username string) (*models.Student, error)
}

// AuthService handles authentication for both roles
type AuthService struct {
	admins     AdminStore
	students   StudentAuthStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(admins AdminStore, students StudentAuthStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		admins:     admins,
		students:   students,
		jwtService: jwtService,
		logger:     logger,
	}
}

// LoginAdmin authenticates an administrator by email and password.
// Unknown email and wrong password produce the same error.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*models.Admin, string, int, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", 0, apperrors.ErrMissingFields
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return nil, "", 0, apperrors.ErrInvalidCredentials
		}
		return nil, "", 0, apperrors.NewPersistenceError(err)
	}

	if !auth.CheckPassword(admin.PasswordHash, password) {
		return nil, "", 0, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(admin.ID, admin.Email, auth.RoleAdmin)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate admin token")
		return nil, "", 0, apperrors.NewPersistenceError(err)
	}

	s.logger.Info().Str("email", admin.Email).Msg("Admin logged in")
	return admin, token, expiresIn, nil
}

// LoginStudent authenticates a student. The identifier may be either an
// institutional email or a username. An email-shaped identifier must
// carry the institutional suffix; one that matches no account falls back
// to a username lookup with the raw identifier, so usernames containing
// "@" still work.
func (s *AuthService) LoginStudent(ctx context.Context, identifier, password string) (*models.Student, string, int, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, "", 0, apperrors.ErrMissingFields
	}

	student, err := s.resolveStudent(ctx, identifier)
	if err != nil {
		return nil, "", 0, err
	}

	if !auth.CheckPassword(student.PasswordHash, password) {
		return nil, "", 0, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(student.ID, student.Email, auth.RoleStudent)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate student token")
		return nil, "", 0, apperrors.NewPersistenceError(err)
	}

	s.logger.Info().Str("username", student.Username).Msg("Student logged in")
	return student, token, expiresIn, nil
}

func (s *AuthService) resolveStudent(ctx context.Context, identifier string) (*models.Student, error) {
	if strings.Contains(identifier, "@") {
		email := validation.NormalizeEmail(identifier)
		if !validation.IsInstitutionalEmail(email) {
			return nil, apperrors.ErrNonInstitutional
		}

		student, err := s.students.GetByEmail(ctx, email)
		if err == nil {
			return student, nil
		}
		if !errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.NewPersistenceError(err)
		}
		// fall back to a username lookup with the raw identifier
	}

	student, err := s.students.GetByUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return student, nil
}
