package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Barun-Mishra-09/jobspot/internal/apperror"
	"github.com/Barun-Mishra-09/jobspot/internal/auth"
	"github.com/Barun-Mishra-09/jobspot/internal/model"
)

// fakeUserRepo is an in-memory repository.UserRepository. A hand-written
// fake keeps the tests readable — what it does is all on the page.
type fakeUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int

	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return apperror.DuplicateAccount()
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	stored := *user
	f.byID[user.ID] = &stored
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	old, ok := f.byID[user.ID]
	if !ok {
		return apperror.NotFound("user")
	}
	delete(f.byEmail, old.Email)
	stored := *user
	f.byID[user.ID] = &stored
	f.byEmail[user.Email] = &stored
	return nil
}

// fakeUploader records uploads and can be told to fail.
type fakeUploader struct {
	calls int
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, _ []byte, folder, filename, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls++
	return fmt.Sprintf("https://cdn.example.com/%s/%s", folder, filename), nil
}

// fakeFederation returns a fixed Google identity or an error.
type fakeFederation struct {
	user *auth.GoogleUser
	err  error
}

func (f *fakeFederation) Exchange(_ context.Context, code string) (*auth.GoogleUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthService(t *testing.T, repo *fakeUserRepo, up *fakeUploader, fed *fakeFederation) *AuthService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", false)
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)
	if up == nil {
		up = &fakeUploader{}
	}
	if fed == nil {
		fed = &fakeFederation{}
	}
	return NewAuthService(repo, tokens, passwords, fed, up, discardLogger())
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Fullname:    "Jane Doe",
		Email:       "jane@x.com",
		Password:    "Secret123!",
		PhoneNumber: "987-654-3210",
		Role:        "Student",
	}
}

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo, nil, nil)

	result, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	require.NotNil(t, result.User)

	assert.Equal(t, "Jane Doe", result.User.Fullname)
	assert.Equal(t, model.RoleStudent, result.User.Role)
	assert.NotEmpty(t, result.Token)
	// Non-digits are stripped before storing.
	assert.Equal(t, "9876543210", result.User.PhoneNumber)

	stored := repo.byEmail["jane@x.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "Secret123!", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))
}

func TestRegister_SanitizedViewHasNoHash(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo, nil, nil)

	result, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	// Serialize the outward view and make sure nothing hash-like survives.
	body, err := json.Marshal(result.User)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), repo.byEmail["jane@x.com"].PasswordHash)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil, nil)

	in := validRegisterInput()
	in.Fullname = ""

	_, err := svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil, nil)

	for _, email := range []string{"not-an-email", "a b@x.com", "jane@", "@x.com", "jane@x"} {
		in := validRegisterInput()
		in.Email = email
		_, err := svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, apperror.ErrValidation, "email %q should be rejected", email)
	}
}

func TestRegister_UnknownRole(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil, nil)

	in := validRegisterInput()
	in.Role = "admin"

	_, err := svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestRegister_PhoneDigitBounds(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil, nil)

	// 6 digits after stripping: rejected.
	in := validRegisterInput()
	in.PhoneNumber = "12-34-56"
	_, err := svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// 7 digits: accepted and stored normalized.
	in = validRegisterInput()
	in.PhoneNumber = "1 2 3 4 5 6 7"
	result, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "1234567", result.User.PhoneNumber)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo, nil, nil)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegisterInput())
	assert.ErrorIs(t, err, apperror.ErrDuplicateAccount)
}

func TestRegister_WithPhoto(t *testing.T) {
	repo := newFakeUserRepo()
	up := &fakeUploader{}
	svc := newTestAuthService(t, repo, up, nil)

	in := validRegisterInput()
	in.Photo = &MediaFile{Content: []byte("png-bytes"), Filename: "me.png", ContentType: "image/png"}

	result, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, up.calls)
	assert.Equal(t, "https://cdn.example.com/profile_photos/me.png", result.User.Profile.ProfilePhotoURL)
}

func TestRegister_UploadFailureCreatesNoAccount(t *testing.T) {
	repo := newFakeUserRepo()
	up := &fakeUploader{err: errors.New("bucket unreachable")}
	svc := newTestAuthService(t, repo, up, nil)

	in := validRegisterInput()
	in.Photo = &MediaFile{Content: []byte("png-bytes"), Filename: "me.png", ContentType: "image/png"}

	_, err := svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, apperror.ErrUpload)
	// All-or-nothing: the failed upload must not leave a partial account.
	assert.Empty(t, repo.byEmail)
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo, nil, nil)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), "jane@x.com", "Secret123!", "student")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", result.User.Fullname)
	assert.NotEmpty(t, result.Token)
}

func TestLogin_UnknownEmailAndWrongPasswordIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo, nil, nil)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	_, errUnknown := svc.Login(context.Background(), "nobody@x.com", "Secret123!", "student")
	_, errWrongPw := svc.Login(context.Background(), "jane@x.com", "wrong-password", "student")

	require.ErrorIs(t, errUnknown, apperror.ErrIncorrectCredential)
	require.ErrorIs(t, errWrongPw, apperror.ErrIncorrectCredential)
	// Identical outward message for the two cases.
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLogin_RoleMismatch(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo, nil, nil)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	// Correct credentials, wrong role.
	_, err = svc.Login(context.Background(), "jane@x.com", "Secret123!", "Recruiter")
	assert.ErrorIs(t, err, apperror.ErrRoleMismatch)
}

func TestLogin_MissingFields(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil, nil)

	_, err := svc.Login(context.Background(), "jane@x.com", "", "student")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestLoginWithGoogle_CreatesAccountOnce(t *testing.T) {
	repo := newFakeUserRepo()
	fed := &fakeFederation{user: &auth.GoogleUser{
		Email:   "jane@gmail.com",
		Name:    "Jane Doe",
		Picture: "https://lh3.example.com/photo.jpg",
	}}
	svc := newTestAuthService(t, repo, nil, fed)

	first, err := svc.LoginWithGoogle(context.Background(), "code-1")
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token)
	assert.Equal(t, model.RoleStudent, first.User.Role)
	assert.Equal(t, "https://lh3.example.com/photo.jpg", first.User.Profile.ProfilePhotoURL)

	// Second login with a code resolving to the same email reuses the
	// account instead of creating a duplicate.
	second, err := svc.LoginWithGoogle(context.Background(), "code-2")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Len(t, repo.byID, 1)
}

func TestLoginWithGoogle_ReusesExistingPasswordAccount(t *testing.T) {
	repo := newFakeUserRepo()
	fed := &fakeFederation{user: &auth.GoogleUser{Email: "jane@x.com", Name: "Jane From Google"}}
	svc := newTestAuthService(t, repo, nil, fed)

	in := validRegisterInput()
	in.Role = "recruiter"
	registered, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	result, err := svc.LoginWithGoogle(context.Background(), "code-1")
	require.NoError(t, err)

	// Role, name, and history of the existing account are preserved.
	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.Equal(t, model.RoleRecruiter, result.User.Role)
	assert.Equal(t, "Jane Doe", result.User.Fullname)
}

func TestLoginWithGoogle_FederatedAccountCannotPasswordLogin(t *testing.T) {
	repo := newFakeUserRepo()
	fed := &fakeFederation{user: &auth.GoogleUser{Email: "jane@gmail.com", Name: "Jane Doe"}}
	svc := newTestAuthService(t, repo, nil, fed)

	_, err := svc.LoginWithGoogle(context.Background(), "code-1")
	require.NoError(t, err)

	// No password can enter a federated account, including the stored
	// marker itself. An empty password never reaches the credential check,
	// it fails field validation first.
	for _, pw := range []string{"password", auth.NoPasswordMarker()} {
		_, err := svc.Login(context.Background(), "jane@gmail.com", pw, "student")
		assert.ErrorIs(t, err, apperror.ErrIncorrectCredential, "password %q must not authenticate", pw)
	}

	_, err = svc.Login(context.Background(), "jane@gmail.com", "", "student")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestLoginWithGoogle_ExchangeFailure(t *testing.T) {
	fed := &fakeFederation{err: errors.New("upstream said: invalid_grant (secret detail)")}
	svc := newTestAuthService(t, newFakeUserRepo(), nil, fed)

	_, err := svc.LoginWithGoogle(context.Background(), "bad-code")
	require.ErrorIs(t, err, apperror.ErrFederation)
	// The upstream body never reaches the caller.
	assert.NotContains(t, err.Error(), "invalid_grant")
}

func TestLoginWithGoogle_MissingCode(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil, nil)

	_, err := svc.LoginWithGoogle(context.Background(), "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil, nil)

	_, err := svc.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
