package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Barun-Mishra-09/jobspot/internal/apperror"
	"github.com/Barun-Mishra-09/jobspot/internal/model"
	"github.com/Barun-Mishra-09/jobspot/internal/repository"
)

// ProfileService applies partial profile updates, delegating media files to
// the upload adapter.
type ProfileService struct {
	users  repository.UserRepository
	media  MediaUploader
	logger *slog.Logger
}

func NewProfileService(users repository.UserRepository, media MediaUploader, logger *slog.Logger) *ProfileService {
	return &ProfileService{users: users, media: media, logger: logger}
}

// UpdateProfileInput carries the profile form. Text fields are partial: an
// empty string means "not supplied" and leaves the stored value unchanged.
// There is deliberately no way to clear a field back to empty through this
// input — that is the contract the existing clients rely on.
type UpdateProfileInput struct {
	Fullname    string
	Email       string
	PhoneNumber string
	Bio         string
	Skills      string // comma-separated
	Resume      *MediaFile
	Photo       *MediaFile
}

// Update applies the supplied fields to the user's profile and returns the
// sanitized result.
//
// Skills arrive as one comma-separated string and are stored as the ordered
// list of trimmed, non-empty tokens. Duplicates are kept as given.
//
// A new resume or photo replaces the stored URL; the previous object is left
// in the media store untouched.
func (s *ProfileService) Update(ctx context.Context, userID string, in UpdateProfileInput) (*model.SanitizedUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("service/profile: fetching user %s: %w", userID, err)
	}

	if in.Fullname != "" {
		user.Fullname = in.Fullname
	}
	if in.Email != "" {
		if !emailPattern.MatchString(in.Email) {
			return nil, apperror.ValidationFailed("email", "invalid email format")
		}
		user.Email = in.Email
	}
	if in.PhoneNumber != "" {
		phone, err := normalizePhone(in.PhoneNumber)
		if err != nil {
			return nil, apperror.ValidationFailed("phoneNumber", "invalid phone number")
		}
		user.PhoneNumber = phone
	}
	if in.Bio != "" {
		user.Profile.Bio = in.Bio
	}
	if in.Skills != "" {
		user.Profile.Skills = parseSkills(in.Skills)
	}

	if in.Resume != nil {
		url, err := s.media.Upload(ctx, in.Resume.Content, "resumes", in.Resume.Filename, in.Resume.ContentType)
		if err != nil {
			s.logger.Error("resume upload failed",
				slog.String("userID", userID),
				slog.String("error", err.Error()),
			)
			return nil, apperror.UploadFailed("resume")
		}
		user.Profile.ResumeURL = url
		user.Profile.ResumeOriginalName = in.Resume.Filename
	}

	if in.Photo != nil {
		url, err := s.media.Upload(ctx, in.Photo.Content, "profile_photos", in.Photo.Filename, in.Photo.ContentType)
		if err != nil {
			s.logger.Error("profile photo upload failed",
				slog.String("userID", userID),
				slog.String("error", err.Error()),
			)
			return nil, apperror.UploadFailed("profile photo")
		}
		user.Profile.ProfilePhotoURL = url
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("service/profile: updating user %s: %w", userID, err)
	}

	s.logger.Info("profile updated", slog.String("userID", userID))

	return user.Sanitize(), nil
}

// parseSkills splits a comma-separated string into trimmed, non-empty
// tokens, preserving order and duplicates.
func parseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}
