package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jcabrera-io/wayfarer/internal/domain"
	"github.com/jcabrera-io/wayfarer/internal/service"
)

// UserHandler handles user listing, signup, and login requests.
type UserHandler struct {
	auth  *service.AuthService
	users *service.UserService
	files domain.FileStore
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(auth *service.AuthService, users *service.UserService, files domain.FileStore) *UserHandler {
	return &UserHandler{auth: auth, users: users, files: files}
}

// HandleGetUsers lists all registered users.
// GET /api/users
// Response: {"users": [...]}
func (h *UserHandler) HandleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": toUserDTOs(users)})
}

// HandleSignup creates a new account. Accepts multipart form data with an
// optional "image" file, or a plain JSON body.
// POST /api/users/signup
// Response: 201 {"userId": ..., "email": ..., "token": ...}
func (h *UserHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var name, email, password, imageKey string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageSize + 1<<20); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid form data.")
			return
		}
		name = r.FormValue("name")
		email = r.FormValue("email")
		password = r.FormValue("password")

		key, err := saveUploadedImage(r, h.files)
		if err != nil {
			respondError(w, err)
			return
		}
		imageKey = key
	} else {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := readJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request body.")
			return
		}
		name, email, password = req.Name, req.Email, req.Password
	}

	user, token, err := h.auth.Signup(r.Context(), name, email, password, imageKey)
	if err != nil {
		discardUploadedImage(r, h.files, imageKey)
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrInvalidInput) {
			respondError(w, err)
			return
		}
		slog.Error("signup user", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Signing up failed, please try again.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"userId": user.ID,
		"email":  user.Email,
		"token":  token,
	})
}

// HandleLogin verifies credentials and returns a fresh token.
// POST /api/users/login
// Response: {"userId": ..., "email": ..., "token": ...}
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeMessage(w, http.StatusUnauthorized, "Credentials seem to be invalid.")
			return
		}
		slog.Error("login user", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Logging in failed, please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId": user.ID,
		"email":  user.Email,
		"token":  token,
	})
}
