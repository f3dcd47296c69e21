package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/darkroom/internal/repository"
	"github.com/templui/darkroom/internal/service"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service and repository errors onto HTTP statuses.
// Anything unrecognized is a 500 and gets logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrMissingFile):
		writeError(w, http.StatusBadRequest, "No image file uploaded")
	case errors.Is(err, service.ErrInvalidPath):
		writeError(w, http.StatusBadRequest, "Invalid path")
	case errors.Is(err, service.ErrAdminAccount):
		writeError(w, http.StatusBadRequest, "Admin accounts cannot be deleted this way")
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrPendingApproval):
		writeError(w, http.StatusForbidden, "Account pending admin approval")
	case errors.Is(err, service.ErrAdminRequired):
		writeError(w, http.StatusForbidden, "Admin access required")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, repository.ErrImageNotFound):
		writeError(w, http.StatusNotFound, "Image not found")
	case errors.Is(err, repository.ErrAlbumNotFound):
		writeError(w, http.StatusNotFound, "Album not found")
	case errors.Is(err, repository.ErrCommentNotFound):
		writeError(w, http.StatusNotFound, "Comment not found")
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrFileNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, "Email already in use")
	case errors.Is(err, repository.ErrLastUser):
		writeError(w, http.StatusConflict, "Cannot delete the last remaining user")
	default:
		slog.Error("request failed", "action", action, "error", err, "method", r.Method, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Failed to " + action,
			Details: err.Error(),
		})
	}
}

// decodeJSON reads a JSON request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// pathID parses a numeric path parameter, answering 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}
