// Package service holds the business logic between the HTTP handlers and the
// repositories:
//
//	handler (HTTP) → service (rules) → repository (DB)
//	                        ↘ auth (bcrypt/JWT), storage (media uploads)
//
// Services know nothing about HTTP: no cookies, no status codes, no request
// parsing. They return sanitized views and taxonomy errors; the handler maps
// both onto the wire.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Barun-Mishra-09/jobspot/internal/apperror"
	"github.com/Barun-Mishra-09/jobspot/internal/auth"
	"github.com/Barun-Mishra-09/jobspot/internal/model"
	"github.com/Barun-Mishra-09/jobspot/internal/repository"
)

// MediaFile is an uploaded file carried from the multipart form to the
// media store.
type MediaFile struct {
	Content     []byte
	Filename    string
	ContentType string
}

// MediaUploader is the outbound contract for media storage. Implemented by
// storage.S3Store; fakes implement it in tests.
type MediaUploader interface {
	Upload(ctx context.Context, content []byte, folder, filename, contentType string) (string, error)
}

// FederationProvider exchanges an OAuth authorization code for a provider
// identity. Implemented by auth.GoogleProvider.
type FederationProvider interface {
	Exchange(ctx context.Context, code string) (*auth.GoogleUser, error)
}

// federatedPhonePlaceholder fills the phone column for accounts provisioned
// through OAuth, where no phone is collected. Ten digits, so it satisfies
// the 7–15 digit invariant without looking like a real number.
const federatedPhonePlaceholder = "0000000000"

// emailPattern is the standard loose address check: something@something.tld
// with no whitespace. Deliverability is not this layer's problem.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService orchestrates registration, password login, and federated
// login. Media upload happens before the account write so a failed upload
// aborts registration without leaving a partial record behind.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	google    FederationProvider
	media     MediaUploader
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	google FederationProvider,
	media MediaUploader,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		google:    google,
		media:     media,
		logger:    logger,
	}
}

// AuthResult bundles the sanitized user with the issued session token so the
// handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.SanitizedUser
	Token string
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Fullname    string
	Email       string
	Password    string
	PhoneNumber string
	Role        string
	Photo       *MediaFile // optional profile photo
}

// Register creates a new account.
//
// Field presence, email shape, role, and phone number are all validated
// before any side effect. The optional photo is uploaded before the user row
// is written: if the upload fails, no account exists afterwards.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Fullname == "" || in.Email == "" || in.Password == "" || in.PhoneNumber == "" || in.Role == "" {
		return nil, apperror.ValidationFailed("", "some fields are empty, fill them and try again")
	}
	if !emailPattern.MatchString(in.Email) {
		return nil, apperror.ValidationFailed("email", "invalid email format")
	}

	role, err := model.ParseRole(in.Role)
	if err != nil {
		return nil, apperror.ValidationFailed("role", "role must be student or recruiter")
	}

	phone, err := normalizePhone(in.PhoneNumber)
	if err != nil {
		return nil, apperror.ValidationFailed("phoneNumber", "invalid phone number")
	}

	// Lookup first for a friendly error; the UNIQUE constraint in the store
	// still catches the race where two registrations pass this check.
	_, err = s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperror.DuplicateAccount()
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/auth: checking email %s: %w", in.Email, err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	photoURL := ""
	if in.Photo != nil {
		photoURL, err = s.media.Upload(ctx, in.Photo.Content, "profile_photos", in.Photo.Filename, in.Photo.ContentType)
		if err != nil {
			s.logger.Error("profile photo upload failed",
				slog.String("email", in.Email),
				slog.String("error", err.Error()),
			)
			return nil, apperror.UploadFailed("profile photo")
		}
	}

	user := &model.User{
		Fullname:     in.Fullname,
		Email:        in.Email,
		PasswordHash: hash,
		PhoneNumber:  phone,
		Role:         role,
		Profile: model.Profile{
			ProfilePhotoURL: photoURL,
		},
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicateAccount) {
			return nil, apperror.DuplicateAccount()
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("account created",
		slog.String("userID", user.ID),
		slog.String("role", string(user.Role)),
	)

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user.Sanitize(), Token: token}, nil
}

// Login verifies credentials and the requested role.
//
// An unknown email and a wrong password both come back as the same
// IncorrectCredential error — the response must not let a caller probe
// which emails have accounts. Role is only checked after the password
// matches, so a role probe requires valid credentials.
func (s *AuthService) Login(ctx context.Context, email, password, roleStr string) (*AuthResult, error) {
	if email == "" || password == "" || roleStr == "" {
		return nil, apperror.ValidationFailed("", "some fields are missing, fill them and try again")
	}

	role, err := model.ParseRole(roleStr)
	if err != nil {
		return nil, apperror.ValidationFailed("role", "role must be student or recruiter")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.IncorrectCredential()
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	ok, err := s.passwords.Verify(password, user.PasswordHash)
	if err != nil {
		// Malformed stored hash: a data problem on our side, not the
		// caller's. Log it, answer with the generic credential error.
		s.logger.Error("stored password hash is malformed",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.IncorrectCredential()
	}
	if !ok {
		return nil, apperror.IncorrectCredential()
	}

	if user.Role != role {
		return nil, apperror.RoleMismatch()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user.Sanitize(), Token: token}, nil
}

// LoginWithGoogle completes federated login: exchange the authorization
// code, then find-or-create the account by email.
//
// An existing account is reused unconditionally — its role, password, and
// history are untouched, whichever way it was originally created. A fresh
// account gets the lowest-privilege role, the phone placeholder, and the
// no-password marker, so it can never be entered through the password path.
//
// Provider errors are logged here with full detail and surfaced to the
// caller only as the generic federation error.
func (s *AuthService) LoginWithGoogle(ctx context.Context, code string) (*AuthResult, error) {
	if code == "" {
		return nil, apperror.ValidationFailed("code", "missing authorization code")
	}

	gUser, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("Google code exchange failed", slog.String("error", err.Error()))
		return nil, apperror.FederationFailed()
	}

	user, err := s.users.GetByEmail(ctx, gUser.Email)
	switch {
	case err == nil:
		// Existing account, reuse as-is.
	case errors.Is(err, apperror.ErrNotFound):
		user = &model.User{
			Fullname:     gUser.Name,
			Email:        gUser.Email,
			PasswordHash: auth.NoPasswordMarker(),
			PhoneNumber:  federatedPhonePlaceholder,
			Role:         model.RoleStudent,
			Profile: model.Profile{
				ProfilePhotoURL: gUser.Picture,
			},
		}
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, apperror.ErrDuplicateAccount) {
				// Lost a race against a concurrent first login for the
				// same email; the winner's account is the account.
				user, err = s.users.GetByEmail(ctx, gUser.Email)
				if err != nil {
					return nil, fmt.Errorf("service/auth: refetching federated user: %w", err)
				}
			} else {
				return nil, fmt.Errorf("service/auth: creating federated user: %w", err)
			}
		} else {
			s.logger.Info("federated account provisioned",
				slog.String("userID", user.ID),
				slog.String("email", user.Email),
			)
		}
	default:
		return nil, fmt.Errorf("service/auth: looking up %s: %w", gUser.Email, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user.Sanitize(), Token: token}, nil
}

// GetUserByID returns the sanitized view of an account. Used by the
// session-restore endpoint after the middleware validates the cookie.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.SanitizedUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user.Sanitize(), nil
}

// normalizePhone strips every non-digit rune and requires the remainder to
// be 7–15 digits, the E.164 length envelope. Stored as a string: leading
// zeros are significant.
func normalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 7 || len(digits) > 15 {
		return "", fmt.Errorf("service: phone number must have 7 to 15 digits, got %d", len(digits))
	}
	return digits, nil
}
