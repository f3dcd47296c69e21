package handler

import (
	"net/http"

	"github.com/templui/darkroom/internal/ctxkeys"
	"github.com/templui/darkroom/internal/model"
	"github.com/templui/darkroom/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

type commentRequest struct {
	Text       string `json:"text"`
	AuthorName string `json:"author_name"`
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	imageID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ForImage(r.Context(), imageID)
	if err != nil {
		writeServiceError(w, r, err, "fetch comments")
		return
	}
	if comments == nil {
		comments = []*model.Comment{}
	}

	writeJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	imageID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req commentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.commentService.Create(r.Context(), ctxkeys.Caller(r.Context()), imageID, req.Text, req.AuthorName)
	if err != nil {
		writeServiceError(w, r, err, "create comment")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.commentService.Delete(r.Context(), ctxkeys.Caller(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err, "delete comment")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true})
}
