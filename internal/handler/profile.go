package handler

import (
	"log/slog"
	"net/http"

	"github.com/Barun-Mishra-09/jobspot/internal/apperror"
	"github.com/Barun-Mishra-09/jobspot/internal/auth"
	"github.com/Barun-Mishra-09/jobspot/internal/service"
)

// ProfileHandler serves profile mutation for the authenticated user.
type ProfileHandler struct {
	svc    *service.ProfileService
	logger *slog.Logger
}

func NewProfileHandler(svc *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: logger}
}

// HandleUpdate applies a partial profile update from a multipart form.
//
// HTTP: PUT /profile/update (behind RequireAuth)
// Form fields: fullname, email, phoneNumber, bio, skills (comma-separated);
// optional file fields "resume" and "profilePhoto". Empty or absent text
// fields leave the stored values unchanged.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.NotFound("user"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, h.logger, apperror.ValidationFailed("", "malformed multipart form"))
		return
	}

	resume, err := readFormFile(r, "resume")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	photo, err := readFormFile(r, "profilePhoto")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.svc.Update(r.Context(), userID, service.UpdateProfileInput{
		Fullname:    r.FormValue("fullname"),
		Email:       r.FormValue("email"),
		PhoneNumber: r.FormValue("phoneNumber"),
		Bio:         r.FormValue("bio"),
		Skills:      r.FormValue("skills"),
		Resume:      resume,
		Photo:       photo,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK, "profile updated successfully", map[string]any{"user": user})
}
