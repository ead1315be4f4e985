package repository

import (
	"context"

	"github.com/Barun-Mishra-09/jobspot/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// SavedJobRepository is the persistence contract for the saved-job relation.
//
// ToggleSavedJob must perform the membership check and the add/remove as one
// atomic storage operation: concurrent toggles for the same (user, job) pair
// serialize at the store, never producing duplicates or lost updates.
// It reports true when the call saved the job, false when it unsaved it.
type SavedJobRepository interface {
	ToggleSavedJob(ctx context.Context, userID, jobID string) (saved bool, err error)
	ListSavedJobs(ctx context.Context, userID string) ([]model.JobSummary, error)
}
