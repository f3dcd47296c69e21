package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/templui/darkroom/internal/ctxkeys"
	"github.com/templui/darkroom/internal/model"
	"github.com/templui/darkroom/internal/service"
)

// multipartOverhead leaves room for the text fields next to the file.
const multipartOverhead = 1 << 20

type ImageHandler struct {
	imageService   *service.ImageService
	maxUploadBytes int64
}

func NewImageHandler(imageService *service.ImageService, maxUploadBytes int64) *ImageHandler {
	return &ImageHandler{
		imageService:   imageService,
		maxUploadBytes: maxUploadBytes,
	}
}

type imageUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	albumID, err := optionalID(q.Get("album_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid album_id")
		return
	}

	images, err := h.imageService.Gallery(r.Context(), ctxkeys.Caller(r.Context()), service.GalleryOptions{
		AlbumID: albumID,
		Sort:    q.Get("sort"),
		Order:   q.Get("order"),
	})
	if err != nil {
		writeServiceError(w, r, err, "list images")
		return
	}
	if images == nil {
		images = []*model.ImageSummary{}
	}

	writeJSON(w, http.StatusOK, images)
}

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)

	err := r.ParseMultipartForm(32 << 20)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	in := service.UploadInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		DateTaken:   r.FormValue("date_taken"),
	}

	in.AlbumID, err = optionalID(r.FormValue("album_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid album_id")
		return
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// Upload reports the missing file.
	case err != nil:
		writeError(w, http.StatusBadRequest, "Invalid image field")
		return
	default:
		defer func() { _ = file.Close() }()
		in.Filename = header.Filename
		in.Data, err = io.ReadAll(file)
		if err != nil {
			slog.Error("failed to read upload", "error", err)
			writeError(w, http.StatusBadRequest, "Failed to read file")
			return
		}
	}

	image, err := h.imageService.Upload(r.Context(), ctxkeys.Caller(r.Context()), in)
	if err != nil {
		writeServiceError(w, r, err, "upload image")
		return
	}

	writeJSON(w, http.StatusCreated, image)
}

func (h *ImageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req imageUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.imageService.Update(r.Context(), ctxkeys.Caller(r.Context()), id, req.Title, req.Description)
	if err != nil {
		writeServiceError(w, r, err, "update image")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true})
}

func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.imageService.Delete(r.Context(), ctxkeys.Caller(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err, "delete image")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true})
}

func (h *ImageHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.imageService.Like(r.Context(), ctxkeys.Caller(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err, "like image")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true})
}

func (h *ImageHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.imageService.Unlike(r.Context(), ctxkeys.Caller(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err, "unlike image")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true})
}

func optionalID(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.New("invalid id")
	}
	return &id, nil
}
