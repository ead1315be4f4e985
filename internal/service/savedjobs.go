package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rs/xid"

	"github.com/Barun-Mishra-09/jobspot/internal/apperror"
	"github.com/Barun-Mishra-09/jobspot/internal/model"
	"github.com/Barun-Mishra-09/jobspot/internal/repository"
)

// ToggleAction reports which way a save toggle went.
type ToggleAction string

const (
	ActionSaved   ToggleAction = "saved"
	ActionUnsaved ToggleAction = "unsaved"
)

// SavedJobService manages the saved-job relation on a user account.
// The toggle itself is delegated to the repository's atomic primitive; this
// layer adds identifier validation and the user-existence check.
type SavedJobService struct {
	users  repository.UserRepository
	saved  repository.SavedJobRepository
	logger *slog.Logger
}

func NewSavedJobService(users repository.UserRepository, saved repository.SavedJobRepository, logger *slog.Logger) *SavedJobService {
	return &SavedJobService{users: users, saved: saved, logger: logger}
}

// ToggleSave flips jobID's membership in the user's saved set and reports
// the action taken. Toggling twice with the same ID restores the original
// state, with the second call reporting the opposite action.
//
// The saved set holds weak references: the job is not required to exist,
// only to be a syntactically valid identifier.
func (s *SavedJobService) ToggleSave(ctx context.Context, userID, jobID string) (ToggleAction, error) {
	if _, err := xid.FromString(jobID); err != nil {
		return "", apperror.InvalidIdentifier("job id")
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.NotFound("user")
		}
		return "", fmt.Errorf("service/savedjobs: fetching user %s: %w", userID, err)
	}

	saved, err := s.saved.ToggleSavedJob(ctx, userID, jobID)
	if err != nil {
		return "", fmt.Errorf("service/savedjobs: toggling job %s for user %s: %w", jobID, userID, err)
	}

	action := ActionUnsaved
	if saved {
		action = ActionSaved
	}

	s.logger.Info("saved-job toggled",
		slog.String("userID", userID),
		slog.String("jobID", jobID),
		slog.String("action", string(action)),
	)

	return action, nil
}

// ListSaved returns the user's saved jobs joined with their display fields.
func (s *SavedJobService) ListSaved(ctx context.Context, userID string) ([]model.JobSummary, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("service/savedjobs: fetching user %s: %w", userID, err)
	}

	jobs, err := s.saved.ListSavedJobs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/savedjobs: listing saved jobs for %s: %w", userID, err)
	}

	return jobs, nil
}
