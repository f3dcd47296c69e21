package handler

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/templui/darkroom/internal/ctxkeys"
	"github.com/templui/darkroom/internal/model"
	"github.com/templui/darkroom/internal/service"
)

type UploadsHandler struct {
	visibilityService *service.VisibilityService
}

func NewUploadsHandler(visibilityService *service.VisibilityService) *UploadsHandler {
	return &UploadsHandler{
		visibilityService: visibilityService,
	}
}

// Serve streams a file from the upload root after the visibility check.
// Route: GET /uploads/{path...}
func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rc, info, clean, err := h.visibilityService.Open(r.Context(), ctxkeys.Caller(r.Context()), r.PathValue("path"))
	if err != nil {
		writeServiceError(w, r, err, "serve file")
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("X-Content-Type-Options", "nosniff")
	if ct := contentType(clean); ct != "" {
		w.Header().Set("Content-Type", ct)
	}

	var modTime time.Time
	if info != nil {
		modTime = info.ModTime
	}

	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, path.Base(clean), modTime, rs)
		return
	}

	if !modTime.IsZero() {
		w.Header().Set("Last-Modified", modTime.UTC().Format(http.TimeFormat))
	}
	_, err = io.Copy(w, rc)
	if err != nil {
		slog.Debug("file copy interrupted", "path", clean, "error", err)
	}
}

// contentType picks the response type from the stored name. Thumbnails are
// always JPEG whatever the original's extension.
func contentType(clean string) string {
	if strings.HasPrefix(clean, model.ThumbsDir+"/") {
		return "image/jpeg"
	}
	switch strings.ToLower(path.Ext(clean)) {
	case ".tif", ".tiff":
		return "image/tiff"
	}
	return mime.TypeByExtension(path.Ext(clean))
}
