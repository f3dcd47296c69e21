package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/darkroom/internal/ctxkeys"
	"github.com/templui/darkroom/internal/model"
	"github.com/templui/darkroom/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// identifier prefers the username field, which is how the admin pair is sent.
func (c credentialsRequest) identifier() string {
	if strings.TrimSpace(c.Username) != "" {
		return c.Username
	}
	return c.Email
}

type signupResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	PendingApproval bool   `json:"pendingApproval"`
}

// sessionUser is the public view of the signed-in identity.
type sessionUser struct {
	ID    *int64  `json:"id,omitempty"`
	Email *string `json:"email"`
	Admin bool    `json:"admin,omitempty"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	User    sessionUser `json:"user"`
}

type meResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *sessionUser `json:"user,omitempty"`
}

func toSessionUser(user *model.User) sessionUser {
	if user == nil {
		return sessionUser{Admin: true}
	}
	return sessionUser{ID: &user.ID, Email: &user.Email}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, err := h.authService.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "sign up")
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{
		Success:         true,
		Message:         "Account created. Awaiting admin approval before you can log in.",
		PendingApproval: true,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, user, err := h.authService.Login(r.Context(), req.identifier(), req.Password)
	if err != nil {
		writeServiceError(w, r, err, "log in")
		return
	}

	err = h.authService.SetSessionCookie(w, session)
	if err != nil {
		writeServiceError(w, r, err, "log in")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Success: true, User: toSessionUser(user)})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())
	if session != nil {
		err := h.authService.Logout(r.Context(), session.ID)
		if err != nil {
			slog.Warn("failed to delete session", "error", err)
		}
	}

	h.authService.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Success: true})
}

func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, meResponse{Authenticated: ctxkeys.Caller(r.Context()).Authenticated})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := ctxkeys.Caller(r.Context())
	if !caller.Authenticated {
		writeJSON(w, http.StatusOK, meResponse{})
		return
	}

	user, err := h.userService.Me(r.Context(), caller)
	if err != nil {
		writeServiceError(w, r, err, "fetch user")
		return
	}

	u := toSessionUser(user)
	writeJSON(w, http.StatusOK, meResponse{Authenticated: true, User: &u})
}
