package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/todoapi/internal/ctxkeys"
	"github.com/templui/todoapi/internal/model"
	"github.com/templui/todoapi/internal/service"
)

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserHandler struct {
	authService *service.AuthService
	userService *service.UserService
	tokenHeader string
}

func NewUserHandler(authService *service.AuthService, userService *service.UserService, tokenHeader string) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		tokenHeader: tokenHeader,
	}
}

// Register handles POST /users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in credentialsInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrEmailAlreadyExists):
		writeError(w, http.StatusBadRequest, service.ErrEmailAlreadyExists.Error())
		return
	case err != nil:
		slog.Error("failed to register user", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Login handles POST /users/login. The new token is returned in the token
// header. Any failure is a 400 with no body.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentialsInput
	err := decodeJSON(w, r, &in)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	user, err := h.authService.FindByCredentials(r.Context(), in.Email, in.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			slog.Error("failed to find user by credentials", "error", err)
		}
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	token, err := h.authService.IssueToken(r.Context(), user, model.TokenAccessAuth)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", user.ID)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	w.Header().Set(h.tokenHeader, token)
	writeJSON(w, http.StatusOK, user)
}

// Me handles GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}

// Logout handles DELETE /users/me/token by revoking the token used for
// this request. Other sessions stay valid.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.authService.RevokeToken(r.Context(), user.ID, ctxkeys.Token(r.Context()))
	if err != nil {
		slog.Error("failed to revoke token", "error", err, "user_id", user.ID)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Delete handles DELETE /users/me
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	deleted, err := h.userService.Delete(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to delete user", "error", err, "user_id", user.ID)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, deleted)
}
