package services

import (
	"context"
	"testing"
	"time"

	"github.com/nqanh/vku-student-manager/internal/app/models"
	"github.com/nqanh/vku-student-manager/internal/pkg/apperrors"
	"github.com/nqanh/vku-student-manager/internal/pkg/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminStore struct {
	admins map[string]*models.Admin
}

func (f *fakeAdminStore) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	a, ok := f.admins[email]
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}
	return a, nil
}

type fakeStudentAuthStore struct {
	byEmail    map[string]*models.Student
	byUsername map[string]*models.Student
}

func (f *fakeStudentAuthStore) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	s, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return s, nil
}

func (f *fakeStudentAuthStore) GetByUsername(_ context.Context, username string) (*models.Student, error) {
	s, ok := f.byUsername[username]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return s, nil
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret-key-for-auth-service",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "vku-student-manager",
	})
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestLoginAdminSuccess(t *testing.T) {
	admins := &fakeAdminStore{admins: map[string]*models.Admin{
		"admin@vku.udn.vn": {ID: 1, Email: "admin@vku.udn.vn", PasswordHash: mustHash(t, "admin-pass")},
	}}
	svc := NewAuthService(admins, &fakeStudentAuthStore{}, testJWTService(), zerolog.Nop())

	admin, token, expiresIn, err := svc.LoginAdmin(context.Background(), "Admin@VKU.UDN.VN", "admin-pass")
	require.NoError(t, err)

	assert.Equal(t, int64(1), admin.ID)
	assert.NotEmpty(t, token)
	assert.Equal(t, 3600, expiresIn)

	claims, err := testJWTService().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestLoginAdminWrongPasswordIsOpaque(t *testing.T) {
	admins := &fakeAdminStore{admins: map[string]*models.Admin{
		"admin@vku.udn.vn": {ID: 1, Email: "admin@vku.udn.vn", PasswordHash: mustHash(t, "admin-pass")},
	}}
	svc := NewAuthService(admins, &fakeStudentAuthStore{}, testJWTService(), zerolog.Nop())

	_, _, _, errWrongPassword := svc.LoginAdmin(context.Background(), "admin@vku.udn.vn", "nope")
	_, _, _, errUnknownEmail := svc.LoginAdmin(context.Background(), "other@vku.udn.vn", "admin-pass")

	assert.ErrorIs(t, errWrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownEmail, apperrors.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestLoginStudentByEmail(t *testing.T) {
	student := &models.Student{ID: 7, Username: "alice", Email: "alice@vku.udn.vn", PasswordHash: mustHash(t, "secret1")}
	students := &fakeStudentAuthStore{
		byEmail:    map[string]*models.Student{"alice@vku.udn.vn": student},
		byUsername: map[string]*models.Student{"alice": student},
	}
	svc := NewAuthService(&fakeAdminStore{}, students, testJWTService(), zerolog.Nop())

	got, token, _, err := svc.LoginStudent(context.Background(), " Alice@VKU.udn.vn ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)

	claims, err := testJWTService().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleStudent, claims.Role)
	assert.Equal(t, int64(7), claims.SubjectID)
}

func TestLoginStudentByUsername(t *testing.T) {
	student := &models.Student{ID: 7, Username: "alice", Email: "alice@vku.udn.vn", PasswordHash: mustHash(t, "secret1")}
	students := &fakeStudentAuthStore{
		byEmail:    map[string]*models.Student{},
		byUsername: map[string]*models.Student{"alice": student},
	}
	svc := NewAuthService(&fakeAdminStore{}, students, testJWTService(), zerolog.Nop())

	got, _, _, err := svc.LoginStudent(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
}

func TestLoginStudentEmailShapedFallsBackToUsername(t *testing.T) {
	// the username itself contains "@" and the institutional suffix
	student := &models.Student{ID: 9, Username: "weird@vku.udn.vn", Email: "real@vku.udn.vn", PasswordHash: mustHash(t, "secret1")}
	students := &fakeStudentAuthStore{
		byEmail:    map[string]*models.Student{},
		byUsername: map[string]*models.Student{"weird@vku.udn.vn": student},
	}
	svc := NewAuthService(&fakeAdminStore{}, students, testJWTService(), zerolog.Nop())

	got, _, _, err := svc.LoginStudent(context.Background(), "weird@vku.udn.vn", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.ID)
}

func TestLoginStudentRejectsForeignEmailIdentifier(t *testing.T) {
	// even when a username happens to look like the foreign address
	student := &models.Student{ID: 4, Username: "evil@gmail.com", Email: "real@vku.udn.vn", PasswordHash: mustHash(t, "secret1")}
	students := &fakeStudentAuthStore{
		byEmail:    map[string]*models.Student{},
		byUsername: map[string]*models.Student{"evil@gmail.com": student},
	}
	svc := NewAuthService(&fakeAdminStore{}, students, testJWTService(), zerolog.Nop())

	got, token, _, err := svc.LoginStudent(context.Background(), "evil@gmail.com", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrNonInstitutional)
	assert.Nil(t, got)
	assert.Empty(t, token)
}

func TestLoginStudentWrongPasswordIsOpaque(t *testing.T) {
	student := &models.Student{ID: 7, Username: "alice", Email: "alice@vku.udn.vn", PasswordHash: mustHash(t, "secret1")}
	students := &fakeStudentAuthStore{
		byEmail:    map[string]*models.Student{"alice@vku.udn.vn": student},
		byUsername: map[string]*models.Student{"alice": student},
	}
	svc := NewAuthService(&fakeAdminStore{}, students, testJWTService(), zerolog.Nop())

	_, _, _, errWrongPassword := svc.LoginStudent(context.Background(), "alice@vku.udn.vn", "wrong")
	_, _, _, errUnknown := svc.LoginStudent(context.Background(), "nobody", "secret1")

	assert.ErrorIs(t, errWrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknown.Error())
}

func TestLoginStudentMissingFields(t *testing.T) {
	svc := NewAuthService(&fakeAdminStore{}, &fakeStudentAuthStore{}, testJWTService(), zerolog.Nop())

	_, _, _, err := svc.LoginStudent(context.Background(), "  ", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrMissingFields)

	_, _, _, err = svc.LoginStudent(context.Background(), "alice", "")
	assert.ErrorIs(t, err, apperrors.ErrMissingFields)
}
