package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/Barun-Mishra-09/jobspot/internal/apperror"
	"github.com/Barun-Mishra-09/jobspot/internal/auth"
	"github.com/Barun-Mishra-09/jobspot/internal/service"
)

// maxUploadSize bounds multipart request bodies (profile photos, resumes).
const maxUploadSize = 10 << 20 // 10 MiB

// AuthHandler serves registration, login, logout, federated login, and the
// session-restore endpoint.
//
// Cookie writing lives here, not in the service: which SameSite mode to use
// is a transport decision (Strict for same-site form posts, Lax for the
// OAuth redirect landing).
type AuthHandler struct {
	svc    *service.AuthService
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens, logger: logger}
}

// HandleRegister creates an account from a multipart form.
//
// HTTP: POST /register
// Form fields: fullname, email, password, phoneNumber, role; optional file
// field "profilePhoto".
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, h.logger, apperror.ValidationFailed("", "malformed multipart form"))
		return
	}

	photo, err := readFormFile(r, "profilePhoto")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.svc.Register(r.Context(), service.RegisterInput{
		Fullname:    r.FormValue("fullname"),
		Email:       r.FormValue("email"),
		Password:    r.FormValue("password"),
		PhoneNumber: r.FormValue("phoneNumber"),
		Role:        r.FormValue("role"),
		Photo:       photo,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.tokens.AttachCookie(w, result.Token, http.SameSiteStrictMode)
	writeSuccess(w, h.logger, http.StatusCreated,
		fmt.Sprintf("%s created account successfully", result.User.Fullname),
		map[string]any{"user": result.User},
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// HandleLogin verifies credentials and starts a session.
//
// HTTP: POST /login (JSON body)
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, apperror.ValidationFailed("", "malformed request body"))
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.tokens.AttachCookie(w, result.Token, http.SameSiteStrictMode)
	writeSuccess(w, h.logger, http.StatusOK,
		fmt.Sprintf("welcome back %s", result.User.Fullname),
		map[string]any{"user": result.User},
	)
}

// HandleLogout clears the session cookie. It always succeeds — there is no
// server-side session to tear down, and clearing an absent cookie is fine.
//
// HTTP: POST /logout (GET also routed for legacy clients)
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.tokens.ClearCookie(w)
	writeSuccess(w, h.logger, http.StatusOK, "user logged out successfully", nil)
}

// HandleGoogleCallback completes federated login.
//
// HTTP: GET /oauth/callback?code=...
//
// The token rides in the body as well as the cookie: the SPA reads it from
// the payload while the cookie keeps authorizing subsequent requests. The
// cookie is Lax because the browser lands here on a cross-site redirect.
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")

	result, err := h.svc.LoginWithGoogle(r.Context(), code)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.tokens.AttachCookie(w, result.Token, http.SameSiteLaxMode)
	writeSuccess(w, h.logger, http.StatusOK, "Google login successful", map[string]any{
		"token": result.Token,
		"user":  result.User,
	})
}

// HandleMe returns the authenticated user's sanitized record.
//
// HTTP: GET /profile/me (behind RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't crash if rewired.
		writeError(w, h.logger, apperror.NotFound("user"))
		return
	}

	user, err := h.svc.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeSuccess(w, h.logger, http.StatusOK, "user retrieved successfully", map[string]any{"user": user})
}

// readFormFile reads an optional multipart file field into a MediaFile.
// Returns (nil, nil) when the field was not supplied, and a taxonomy error
// when the file is unreadable or over the upload limit. Reading one byte
// past the limit distinguishes an oversize file from one that is exactly
// at it, so a too-big upload is rejected instead of stored truncated.
func readFormFile(r *http.Request, field string) (*service.MediaFile, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperror.ValidationFailed(field, "unreadable file")
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, apperror.ValidationFailed(field, "unreadable file")
	}
	if len(content) > maxUploadSize {
		return nil, apperror.ValidationFailed(field, "file exceeds the 10 MiB upload limit")
	}

	return &service.MediaFile{
		Content:     content,
		Filename:    header.Filename,
		ContentType: detectContentType(header),
	}, nil
}

func detectContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
