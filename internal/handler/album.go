package handler

import (
	"net/http"

	"github.com/templui/darkroom/internal/ctxkeys"
	"github.com/templui/darkroom/internal/model"
	"github.com/templui/darkroom/internal/service"
)

type AlbumHandler struct {
	albumService *service.AlbumService
}

func NewAlbumHandler(albumService *service.AlbumService) *AlbumHandler {
	return &AlbumHandler{
		albumService: albumService,
	}
}

type albumRequest struct {
	Name     string `json:"name"`
	IsPublic *bool  `json:"is_public"`
}

func (h *AlbumHandler) List(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albumService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "list albums")
		return
	}
	if albums == nil {
		albums = []*model.Album{}
	}

	writeJSON(w, http.StatusOK, albums)
}

func (h *AlbumHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	album, err := h.albumService.Create(r.Context(), ctxkeys.Caller(r.Context()), req.Name, req.IsPublic)
	if err != nil {
		writeServiceError(w, r, err, "create album")
		return
	}

	writeJSON(w, http.StatusCreated, album)
}

func (h *AlbumHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req albumRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	album, err := h.albumService.Update(r.Context(), ctxkeys.Caller(r.Context()), id, req.Name, req.IsPublic)
	if err != nil {
		writeServiceError(w, r, err, "update album")
		return
	}

	writeJSON(w, http.StatusOK, album)
}

func (h *AlbumHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.albumService.Delete(r.Context(), ctxkeys.Caller(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err, "delete album")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Album deleted successfully"})
}
