package services

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/nqanh/vku-student-manager/internal/app/models"
	"github.com/nqanh/vku-student-manager/internal/app/models/dto"
	"github.com/nqanh/vku-student-manager/internal/events"
	"github.com/nqanh/vku-student-manager/internal/pkg/apperrors"
	"github.com/nqanh/vku-student-manager/internal/pkg/auth"
	"github.com/nqanh/vku-student-manager/internal/pkg/photostorage"
	"github.com/nqanh/vku-student-manager/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// StudentStore is the persistence surface the student service needs
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, search string) ([]*models.Student, error)
	UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
}

// RosterNotifier is told when the student roster has changed
type RosterNotifier interface {
	StudentsChanged(ctx context.Context)
}

// StudentService implements the account mutation pipeline shared by
// admin creation, self-service registration, and profile edits.
type StudentService struct {
	store    StudentStore
	photos   photostorage.Storage
	notifier RosterNotifier
	events   events.Publisher
	logger   zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	store StudentStore,
	photos photostorage.Storage,
	notifier RosterNotifier,
	publisher events.Publisher,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		store:    store,
		photos:   photos,
		notifier: notifier,
		events:   publisher,
		logger:   logger,
	}
}

// profileInput carries the normalized fields of one mutation attempt
type profileInput struct {
	username string
	email    string
	password string
}

// normalizeAndValidate runs the shared shape checks. The password
// minimum applies only to self-registration, so length is checked at
// the call sites that need it.
func (s *StudentService) normalizeAndValidate(username, email, password string, passwordRequired bool) (profileInput, error) {
	in := profileInput{
		username: validation.NormalizeUsername(username),
		email:    validation.NormalizeEmail(email),
		password: password,
	}

	if in.username == "" || in.email == "" {
		return in, apperrors.ErrMissingFields
	}
	if passwordRequired && in.password == "" {
		return in, apperrors.ErrMissingFields
	}
	if !validation.IsInstitutionalEmail(in.email) {
		return in, apperrors.ErrNonInstitutional
	}

	return in, nil
}

// checkConflicts runs the username check first and the email check
// second, so a doubly conflicting input reports the username.
func (s *StudentService) checkConflicts(ctx context.Context, in profileInput, excludeID int64) error {
	taken, err := s.store.UsernameExists(ctx, in.username, excludeID)
	if err != nil {
		return apperrors.NewPersistenceError(err)
	}
	if taken {
		return apperrors.ErrUsernameTaken
	}

	taken, err = s.store.EmailExists(ctx, in.email, excludeID)
	if err != nil {
		return apperrors.NewPersistenceError(err)
	}
	if taken {
		return apperrors.ErrEmailTaken
	}

	return nil
}

// uploadPhoto stores the photo before any database write so an upload
// failure leaves the record untouched.
func (s *StudentService) uploadPhoto(ctx context.Context, photo *multipart.FileHeader, email string) (string, error) {
	url, err := s.photos.UploadPhoto(ctx, photo, email)
	if err != nil {
		s.logger.Error().Err(err).Msg("Photo upload failed")
		return "", apperrors.ErrUploadFailed
	}
	return url, nil
}

func (s *StudentService) notifyChanged(ctx context.Context, eventType string, student *models.Student) {
	if s.events != nil {
		s.events.Publish(ctx, eventType, student)
	}
	if s.notifier != nil {
		s.notifier.StudentsChanged(ctx)
	}
}

// create runs the shared creation pipeline. createdAt is nil for admin
// adds; self-registration stamps it.
func (s *StudentService) create(ctx context.Context, in profileInput, photo *multipart.FileHeader, createdAt *time.Time) (*models.Student, error) {
	if err := s.checkConflicts(ctx, in, 0); err != nil {
		return nil, err
	}

	photoURL := ""
	if photo != nil {
		url, err := s.uploadPhoto(ctx, photo, in.email)
		if err != nil {
			return nil, err
		}
		photoURL = url
	}

	hash, err := auth.HashPassword(in.password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, apperrors.NewPersistenceError(err)
	}

	student := &models.Student{
		Username:     in.username,
		Email:        in.email,
		PasswordHash: hash,
		PhotoURL:     photoURL,
		CreatedAt:    createdAt,
	}

	if err := s.store.Create(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) || errors.Is(err, apperrors.ErrEmailTaken) {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	s.logger.Info().Int64("studentID", student.ID).Str("username", student.Username).Msg("Student created")
	s.notifyChanged(ctx, events.StudentCreated, student)

	return student, nil
}

// Create adds a new student on behalf of an administrator. The admin
// form has no password minimum and no confirmation field.
func (s *StudentService) Create(ctx context.Context, req *dto.CreateStudentRequest, photo *multipart.FileHeader) (*models.Student, error) {
	in, err := s.normalizeAndValidate(req.Username, req.Email, req.Password, true)
	if err != nil {
		return nil, err
	}

	return s.create(ctx, in, photo, nil)
}

// Register creates an account from the student's own signup form
func (s *StudentService) Register(ctx context.Context, req *dto.RegisterStudentRequest) (*models.Student, error) {
	in, err := s.normalizeAndValidate(req.Username, req.Email, req.Password, true)
	if err != nil {
		return nil, err
	}
	if len(in.password) < validation.PasswordMinLength {
		return nil, apperrors.ErrPasswordTooShort
	}
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	now := time.Now()
	return s.create(ctx, in, nil, &now)
}

// Update edits an existing student. A blank password keeps the stored
// hash; a new photo replaces the stored URL only after a successful
// upload. The write happens as a single statement.
func (s *StudentService) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest, photo *multipart.FileHeader) (*models.Student, error) {
	student, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	in, err := s.normalizeAndValidate(req.Username, req.Email, req.Password, false)
	if err != nil {
		return nil, err
	}

	if err := s.checkConflicts(ctx, in, id); err != nil {
		return nil, err
	}

	if photo != nil {
		url, err := s.uploadPhoto(ctx, photo, in.email)
		if err != nil {
			return nil, err
		}
		student.PhotoURL = url
	}

	student.Username = in.username
	student.Email = in.email
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to hash password")
			return nil, apperrors.NewPersistenceError(err)
		}
		student.PasswordHash = hash
	}

	if err := s.store.Update(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) ||
			errors.Is(err, apperrors.ErrEmailTaken) ||
			errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	s.logger.Info().Int64("studentID", student.ID).Msg("Student updated")
	s.notifyChanged(ctx, events.StudentUpdated, student)

	return student, nil
}

// GetByID retrieves a single student
func (s *StudentService) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return student, nil
}

// List retrieves students ordered by username, optionally filtered by a
// substring match on username or email.
func (s *StudentService) List(ctx context.Context, search string) ([]*models.Student, error) {
	students, err := s.store.List(ctx, search)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return students, nil
}

// Delete removes a student permanently
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	student, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return err
		}
		return apperrors.NewPersistenceError(err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return err
		}
		return apperrors.NewPersistenceError(err)
	}

	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	s.notifyChanged(ctx, events.StudentDeleted, student)

	return nil
}
