package handler

import (
	"net/http"

	"github.com/templui/darkroom/internal/ctxkeys"
	"github.com/templui/darkroom/internal/model"
	"github.com/templui/darkroom/internal/service"
)

type AdminHandler struct {
	adminService   *service.AdminService
	imageService   *service.ImageService
	commentService *service.CommentService
}

func NewAdminHandler(adminService *service.AdminService, imageService *service.ImageService, commentService *service.CommentService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		imageService:   imageService,
		commentService: commentService,
	}
}

type userIDRequest struct {
	UserID int64 `json:"userId"`
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	overview, err := h.adminService.Overview(r.Context(), ctxkeys.Caller(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "fetch stats")
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

func (h *AdminHandler) PendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.PendingUsers(r.Context(), ctxkeys.Caller(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "fetch pending users")
		return
	}
	if users == nil {
		users = []*model.User{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *AdminHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	var req userIDRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}

	err := h.adminService.ApproveUser(r.Context(), ctxkeys.Caller(r.Context()), req.UserID)
	if err != nil {
		writeServiceError(w, r, err, "approve user")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "User approved"})
}

func (h *AdminHandler) RejectUser(w http.ResponseWriter, r *http.Request) {
	var req userIDRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}

	err := h.adminService.RejectUser(r.Context(), ctxkeys.Caller(r.Context()), req.UserID)
	if err != nil {
		writeServiceError(w, r, err, "reject user")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "User rejected and deleted"})
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.adminService.DeleteUser(r.Context(), ctxkeys.Caller(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err, "delete user")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true})
}

func (h *AdminHandler) RegenerateThumbnails(w http.ResponseWriter, r *http.Request) {
	err := service.RequireAdmin(ctxkeys.Caller(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "regenerate thumbnails")
		return
	}

	generated, err := h.imageService.RegenerateThumbnails(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "regenerate thumbnails")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "generated": generated})
}

func (h *AdminHandler) AllComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.All(r.Context(), ctxkeys.Caller(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "fetch comments")
		return
	}
	if comments == nil {
		comments = []*model.Comment{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}
