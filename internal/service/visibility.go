package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/templui/darkroom/internal/model"
	"github.com/templui/darkroom/internal/repository"
	"github.com/templui/darkroom/internal/storage"
)

var (
	ErrInvalidPath  = errors.New("invalid path")
	ErrFileNotFound = errors.New("file not found")
)

// VisibilityService decides who may read files below /uploads.
type VisibilityService struct {
	imageRepository repository.ImageRepository
	storage         storage.Storage
}

func NewVisibilityService(imageRepository repository.ImageRepository, storage storage.Storage) *VisibilityService {
	return &VisibilityService{
		imageRepository: imageRepository,
		storage:         storage,
	}
}

// CleanUploadPath validates a path relative to the upload root and returns
// its clean form. Anything that could leave the root is rejected outright,
// before any lookup.
func CleanUploadPath(raw string) (string, error) {
	if raw == "" || strings.ContainsAny(raw, "\\\x00") || strings.HasPrefix(raw, "/") {
		return "", ErrInvalidPath
	}

	for _, segment := range strings.Split(raw, "/") {
		if segment == ".." {
			return "", ErrInvalidPath
		}
	}

	clean := path.Clean(raw)
	if clean == "." || clean == model.ThumbsDir {
		return "", ErrInvalidPath
	}

	return clean, nil
}

// Authorize applies the visibility rules to a clean upload path.
// Thumbnails are public. An original is readable unless it belongs to an
// album that is not public and the caller is anonymous; files without an
// image row are treated as public.
func (s *VisibilityService) Authorize(ctx context.Context, caller model.Caller, clean string) error {
	if strings.HasPrefix(clean, model.ThumbsDir+"/") {
		return nil
	}

	v, err := s.imageRepository.Visibility(ctx, path.Base(clean))
	if errors.Is(err, repository.ErrImageNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up image: %w", err)
	}

	if v.AlbumID == nil || (v.AlbumPublic != nil && *v.AlbumPublic) || caller.Authenticated {
		return nil
	}

	return ErrForbidden
}

// Open resolves, authorizes and opens an upload. The caller closes the
// returned reader.
func (s *VisibilityService) Open(ctx context.Context, caller model.Caller, raw string) (io.ReadCloser, *storage.ObjectInfo, string, error) {
	clean, err := CleanUploadPath(raw)
	if err != nil {
		return nil, nil, "", err
	}

	err = s.Authorize(ctx, caller, clean)
	if err != nil {
		return nil, nil, "", err
	}

	rc, info, err := s.storage.Open(ctx, clean)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, "", ErrFileNotFound
	}
	if errors.Is(err, storage.ErrInvalidKey) {
		return nil, nil, "", ErrInvalidPath
	}
	if err != nil {
		return nil, nil, "", err
	}

	return rc, info, clean, nil
}
