package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Barun-Mishra-09/jobspot/internal/apperror"
	"github.com/Barun-Mishra-09/jobspot/internal/auth"
	"github.com/Barun-Mishra-09/jobspot/internal/service"
)

// SavedJobHandler serves the saved-job toggle and listing.
type SavedJobHandler struct {
	svc    *service.SavedJobService
	logger *slog.Logger
}

func NewSavedJobHandler(svc *service.SavedJobService, logger *slog.Logger) *SavedJobHandler {
	return &SavedJobHandler{svc: svc, logger: logger}
}

// HandleToggle flips the saved state of a job for the authenticated user.
//
// HTTP: GET|POST /jobs/save/{id} (behind RequireAuth)
func (h *SavedJobHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.NotFound("user"))
		return
	}

	jobID := chi.URLParam(r, "id")

	action, err := h.svc.ToggleSave(r.Context(), userID, jobID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK,
		fmt.Sprintf("job %s successfully", action),
		map[string]any{"action": action},
	)
}

// HandleListSaved returns the authenticated user's saved jobs with their
// display fields and company summaries.
//
// HTTP: GET /jobs/saved (behind RequireAuth)
func (h *SavedJobHandler) HandleListSaved(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.NotFound("user"))
		return
	}

	jobs, err := h.svc.ListSaved(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK, "saved jobs retrieved successfully", map[string]any{
		"savedJobs": jobs,
	})
}
