package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/nqanh/vku-student-manager/internal/app/models"
	"github.com/nqanh/vku-student-manager/internal/app/models/dto"
	"github.com/nqanh/vku-student-manager/internal/pkg/apperrors"
	"github.com/nqanh/vku-student-manager/internal/pkg/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStudentStore is an in-memory StudentStore that records writes
type fakeStudentStore struct {
	students map[int64]*models.Student
	nextID   int64

	createCalls int
	updateCalls int
	existsCalls int
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: map[int64]*models.Student{}, nextID: 1}
}

func (f *fakeStudentStore) add(username, email string) *models.Student {
	s := &models.Student{ID: f.nextID, Username: username, Email: email, PasswordHash: "x"}
	f.students[s.ID] = s
	f.nextID++
	return s
}

func (f *fakeStudentStore) Create(_ context.Context, student *models.Student) error {
	f.createCalls++
	student.ID = f.nextID
	f.nextID++
	copied := *student
	f.students[student.ID] = &copied
	return nil
}

func (f *fakeStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStudentStore) Update(_ context.Context, student *models.Student) error {
	f.updateCalls++
	if _, ok := f.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	copied := *student
	f.students[student.ID] = &copied
	return nil
}

func (f *fakeStudentStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.students, id)
	return nil
}

func (f *fakeStudentStore) List(_ context.Context, _ string) ([]*models.Student, error) {
	out := []*models.Student{}
	for _, s := range f.students {
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeStudentStore) UsernameExists(_ context.Context, username string, excludeID int64) (bool, error) {
	f.existsCalls++
	for _, s := range f.students {
		if s.Username == username && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentStore) EmailExists(_ context.Context, email string, excludeID int64) (bool, error) {
	f.existsCalls++
	for _, s := range f.students {
		if s.Email == email && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// fakePhotoStorage returns a canned URL or a canned error
type fakePhotoStorage struct {
	url     string
	err     error
	uploads int
}

func (f *fakePhotoStorage) UploadPhoto(_ context.Context, _ *multipart.FileHeader, _ string) (string, error) {
	f.uploads++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeNotifier struct{ calls int }

func (f *fakeNotifier) StudentsChanged(context.Context) { f.calls++ }

type fakePublisher struct{ types []string }

func (f *fakePublisher) Publish(_ context.Context, eventType string, _ *models.Student) {
	f.types = append(f.types, eventType)
}

func newTestStudentService(store *fakeStudentStore, photos *fakePhotoStorage) (*StudentService, *fakeNotifier, *fakePublisher) {
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}
	if photos == nil {
		photos = &fakePhotoStorage{url: "https://cdn.example/photo.png"}
	}
	svc := NewStudentService(store, photos, notifier, publisher, zerolog.Nop())
	return svc, notifier, publisher
}

func TestCreateNormalizesEmail(t *testing.T) {
	store := newFakeStudentStore()
	svc, notifier, publisher := newTestStudentService(store, nil)

	student, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Username: "  alice  ",
		Email:    "  Alice@VKU.UDN.VN ",
		Password: "secret1",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "alice", student.Username)
	assert.Equal(t, "alice@vku.udn.vn", student.Email)
	assert.NotEmpty(t, student.PasswordHash)
	assert.NotEqual(t, "secret1", student.PasswordHash)
	assert.Nil(t, student.CreatedAt, "admin adds do not stamp createdAt")
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, []string{"student.created"}, publisher.types)
}

func TestCreateHasNoPasswordMinimum(t *testing.T) {
	store := newFakeStudentStore()
	svc, _, _ := newTestStudentService(store, nil)

	student, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Username: "bob",
		Email:    "bob@vku.udn.vn",
		Password: "ab",
	}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, student.PasswordHash)
}

func TestCreateRejectsDuplicateUsernameWithoutWrite(t *testing.T) {
	store := newFakeStudentStore()
	store.add("alice", "alice@vku.udn.vn")
	svc, notifier, _ := newTestStudentService(store, nil)

	_, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Username: "alice",
		Email:    "other@vku.udn.vn",
		Password: "secret1",
	}, nil)

	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	assert.Zero(t, store.createCalls)
	assert.Zero(t, notifier.calls)
}

func TestRegisterRejectsShortPasswordBeforeStoreAccess(t *testing.T) {
	store := newFakeStudentStore()
	svc, _, _ := newTestStudentService(store, nil)

	_, err := svc.Register(context.Background(), &dto.RegisterStudentRequest{
		Username:        "bob",
		Email:           "bob@vku.udn.vn",
		Password:        "12345",
		ConfirmPassword: "12345",
	})

	assert.ErrorIs(t, err, apperrors.ErrPasswordTooShort)
	assert.Zero(t, store.existsCalls)
	assert.Zero(t, store.createCalls)
}

func TestRegisterStampsCreatedAt(t *testing.T) {
	store := newFakeStudentStore()
	svc, _, _ := newTestStudentService(store, nil)

	student, err := svc.Register(context.Background(), &dto.RegisterStudentRequest{
		Username:        "bob",
		Email:           "bob@vku.udn.vn",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.NotNil(t, student.CreatedAt)
}

func TestCreateRejectsNonInstitutionalEmail(t *testing.T) {
	store := newFakeStudentStore()
	svc, _, _ := newTestStudentService(store, nil)

	_, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Username: "bob",
		Email:    "bob@gmail.com",
		Password: "secret1",
	}, nil)

	assert.ErrorIs(t, err, apperrors.ErrNonInstitutional)
	assert.Zero(t, store.existsCalls)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	store := newFakeStudentStore()
	svc, _, _ := newTestStudentService(store, nil)

	_, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Username: "   ",
		Email:    "bob@vku.udn.vn",
		Password: "secret1",
	}, nil)

	assert.ErrorIs(t, err, apperrors.ErrMissingFields)
}

func TestCreateUploadFailureAbortsWrite(t *testing.T) {
	store := newFakeStudentStore()
	photos := &fakePhotoStorage{err: errors.New("cloud down")}
	svc, notifier, _ := newTestStudentService(store, photos)

	_, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Username: "carol",
		Email:    "carol@vku.udn.vn",
		Password: "secret1",
	}, &multipart.FileHeader{Filename: "me.png"})

	assert.ErrorIs(t, err, apperrors.ErrUploadFailed)
	assert.Zero(t, store.createCalls)
	assert.Zero(t, notifier.calls)
}

func TestCreateStoresUploadedPhotoURL(t *testing.T) {
	store := newFakeStudentStore()
	photos := &fakePhotoStorage{url: "https://res.cloudinary.com/demo/x.png"}
	svc, _, _ := newTestStudentService(store, photos)

	student, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		Username: "carol",
		Email:    "carol@vku.udn.vn",
		Password: "secret1",
	}, &multipart.FileHeader{Filename: "me.png"})
	require.NoError(t, err)

	assert.Equal(t, "https://res.cloudinary.com/demo/x.png", student.PhotoURL)
	assert.Equal(t, 1, photos.uploads)
}

func TestRegisterRejectsPasswordMismatch(t *testing.T) {
	store := newFakeStudentStore()
	svc, _, _ := newTestStudentService(store, nil)

	_, err := svc.Register(context.Background(), &dto.RegisterStudentRequest{
		Username:        "dave",
		Email:           "dave@vku.udn.vn",
		Password:        "secret1",
		ConfirmPassword: "secret2",
	})

	assert.ErrorIs(t, err, apperrors.ErrPasswordMismatch)
	assert.Zero(t, store.createCalls)
}

func TestUpdateRejectsTakenEmail(t *testing.T) {
	store := newFakeStudentStore()
	store.add("alice", "alice@vku.udn.vn")
	target := store.add("bob", "bob@vku.udn.vn")
	svc, _, _ := newTestStudentService(store, nil)

	_, err := svc.Update(context.Background(), target.ID, &dto.UpdateStudentRequest{
		Username: "bob",
		Email:    "alice@vku.udn.vn",
	}, nil)

	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	assert.Zero(t, store.updateCalls)
}

func TestUpdateAllowsOwnIdentifiers(t *testing.T) {
	store := newFakeStudentStore()
	target := store.add("bob", "bob@vku.udn.vn")
	svc, notifier, publisher := newTestStudentService(store, nil)

	updated, err := svc.Update(context.Background(), target.ID, &dto.UpdateStudentRequest{
		Username: "bob",
		Email:    "bob@vku.udn.vn",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "bob", updated.Username)
	assert.Equal(t, 1, store.updateCalls)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, []string{"student.updated"}, publisher.types)
}

func TestUpdateBlankPasswordKeepsStoredHash(t *testing.T) {
	store := newFakeStudentStore()
	target := store.add("bob", "bob@vku.udn.vn")
	target.PasswordHash = "stored-hash"
	svc, _, _ := newTestStudentService(store, nil)

	updated, err := svc.Update(context.Background(), target.ID, &dto.UpdateStudentRequest{
		Username: "bobby",
		Email:    "bob@vku.udn.vn",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "stored-hash", updated.PasswordHash)
	assert.Equal(t, "bobby", updated.Username)
}

func TestUpdateNewPasswordReplacesHash(t *testing.T) {
	store := newFakeStudentStore()
	target := store.add("bob", "bob@vku.udn.vn")
	target.PasswordHash = "stored-hash"
	svc, _, _ := newTestStudentService(store, nil)

	updated, err := svc.Update(context.Background(), target.ID, &dto.UpdateStudentRequest{
		Username: "bob",
		Email:    "bob@vku.udn.vn",
		Password: "brand-new",
	}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, "stored-hash", updated.PasswordHash)
	assert.True(t, auth.CheckPassword(updated.PasswordHash, "brand-new"))
}

func TestUpdateUploadFailureLeavesRecordUntouched(t *testing.T) {
	store := newFakeStudentStore()
	target := store.add("bob", "bob@vku.udn.vn")
	photos := &fakePhotoStorage{err: errors.New("cloud down")}
	svc, _, _ := newTestStudentService(store, photos)

	_, err := svc.Update(context.Background(), target.ID, &dto.UpdateStudentRequest{
		Username: "bobby",
		Email:    "bob@vku.udn.vn",
	}, &multipart.FileHeader{Filename: "new.png"})

	assert.ErrorIs(t, err, apperrors.ErrUploadFailed)
	assert.Zero(t, store.updateCalls)

	kept, err := store.GetByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", kept.Username)
}

func TestUpdateMissingStudent(t *testing.T) {
	store := newFakeStudentStore()
	svc, _, _ := newTestStudentService(store, nil)

	_, err := svc.Update(context.Background(), 42, &dto.UpdateStudentRequest{
		Username: "ghost",
		Email:    "ghost@vku.udn.vn",
	}, nil)

	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestDeleteThenGetReturnsNotFound(t *testing.T) {
	store := newFakeStudentStore()
	target := store.add("bob", "bob@vku.udn.vn")
	svc, notifier, publisher := newTestStudentService(store, nil)

	require.NoError(t, svc.Delete(context.Background(), target.ID))
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, []string{"student.deleted"}, publisher.types)

	_, err := svc.GetByID(context.Background(), target.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	err = svc.Delete(context.Background(), target.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}
