package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/templui/darkroom/internal/dbtest"
	"github.com/templui/darkroom/internal/repository"
	"github.com/templui/darkroom/internal/service"
	"github.com/templui/darkroom/internal/storage"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&service.ValidationError{Message: "Album name required"}, http.StatusBadRequest},
		{service.ErrMissingFile, http.StatusBadRequest},
		{service.ErrInvalidPath, http.StatusBadRequest},
		{service.ErrAdminAccount, http.StatusBadRequest},
		{service.ErrUnauthenticated, http.StatusUnauthorized},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrPendingApproval, http.StatusForbidden},
		{service.ErrAdminRequired, http.StatusForbidden},
		{service.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("lookup: %w", repository.ErrImageNotFound), http.StatusNotFound},
		{repository.ErrAlbumNotFound, http.StatusNotFound},
		{repository.ErrCommentNotFound, http.StatusNotFound},
		{repository.ErrUserNotFound, http.StatusNotFound},
		{service.ErrFileNotFound, http.StatusNotFound},
		{service.ErrEmailAlreadyExists, http.StatusConflict},
		{repository.ErrLastUser, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err, "test")

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}

			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if body.Error == "" {
				t.Error("missing error message")
			}
			if (tt.want == http.StatusInternalServerError) != (body.Details != "") {
				t.Errorf("details = %q for status %d", body.Details, rec.Code)
			}
		})
	}
}

func TestValidationMessageIsVerbatim(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), &service.ValidationError{Message: "Valid email required"}, "sign up")

	if !strings.Contains(rec.Body.String(), `"Valid email required"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestUploadsRejectsTraversal(t *testing.T) {
	db := dbtest.Open(t)
	st, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Save(context.Background(), "ok.jpg", strings.NewReader("jpeg bytes")); err != nil {
		t.Fatal(err)
	}

	h := NewUploadsHandler(service.NewVisibilityService(repository.NewImageRepository(db), st))

	tests := []struct {
		path string
		want int
	}{
		{"../../etc/passwd", http.StatusBadRequest},
		{"thumbs/../../../etc/passwd", http.StatusBadRequest},
		{`..\..\windows\win.ini`, http.StatusBadRequest},
		{"", http.StatusBadRequest},
		{"nope.jpg", http.StatusNotFound},
		{"ok.jpg", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/uploads/x", nil)
			req.SetPathValue("path", tt.path)
			rec := httptest.NewRecorder()

			h.Serve(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestOptionalID(t *testing.T) {
	id, err := optionalID(" 42 ")
	if err != nil || id == nil || *id != 42 {
		t.Errorf("optionalID(42) = %v, %v", id, err)
	}

	id, err = optionalID("")
	if err != nil || id != nil {
		t.Errorf("optionalID(\"\") = %v, %v", id, err)
	}

	for _, raw := range []string{"abc", "-1", "0"} {
		if _, err := optionalID(raw); err == nil {
			t.Errorf("optionalID(%q) accepted", raw)
		}
	}
}

func TestUploadContentType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"photo.jpg", "image/jpeg"},
		{"scan.TIFF", "image/tiff"},
		{"scan.tif", "image/tiff"},
		{"thumbs/scan.tif", "image/jpeg"},
		{"thumbs/pic.png", "image/jpeg"},
	}

	for _, tt := range tests {
		if got := contentType(tt.path); got != tt.want {
			t.Errorf("contentType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
