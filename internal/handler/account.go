package handler

import (
	"net/http"

	"github.com/templui/darkroom/internal/ctxkeys"
	"github.com/templui/darkroom/internal/service"
)

type AccountHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAccountHandler(authService *service.AuthService, userService *service.UserService) *AccountHandler {
	return &AccountHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *AccountHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.userService.Stats(r.Context(), ctxkeys.Caller(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "fetch stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// DeleteAccount removes the caller's account and ends the session.
// Sessions are deleted with the user row.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	err := h.userService.DeleteAccount(r.Context(), ctxkeys.Caller(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "delete account")
		return
	}

	h.authService.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Success: true})
}
