package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/templui/darkroom/internal/markdown"
	"github.com/templui/darkroom/internal/media"
	"github.com/templui/darkroom/internal/model"
	"github.com/templui/darkroom/internal/repository"
	"github.com/templui/darkroom/internal/storage"
	"github.com/templui/darkroom/internal/validation"
)

var ErrMissingFile = errors.New("no image file uploaded")

// UploadInput is one multipart upload. Empty optional fields are treated
// as absent.
type UploadInput struct {
	Filename    string
	Data        []byte
	Title       string
	Description string
	AlbumID     *int64
	DateTaken   string
}

// GalleryOptions are the listing parameters as received from the client.
type GalleryOptions struct {
	AlbumID *int64
	Sort    string
	Order   string
}

type ImageService struct {
	imageRepository repository.ImageRepository
	albumRepository repository.AlbumRepository
	likeRepository  repository.LikeRepository
	storage         storage.Storage
	thumbnailer     media.Thumbnailer
	markdown        *markdown.Parser
	constraints     validation.FileConstraints
	allowAnonymous  bool
	now             func() time.Time
}

func NewImageService(
	imageRepository repository.ImageRepository,
	albumRepository repository.AlbumRepository,
	likeRepository repository.LikeRepository,
	storage storage.Storage,
	thumbnailer media.Thumbnailer,
	markdown *markdown.Parser,
	maxUploadBytes int64,
	allowAnonymous bool,
) *ImageService {
	return &ImageService{
		imageRepository: imageRepository,
		albumRepository: albumRepository,
		likeRepository:  likeRepository,
		storage:         storage,
		thumbnailer:     thumbnailer,
		markdown:        markdown,
		constraints:     validation.ImageConstraints.WithMaxSize(maxUploadBytes),
		allowAnonymous:  allowAnonymous,
		now:             time.Now,
	}
}

// Upload runs the ingestion pipeline: store the original, resolve the
// capture date, render the thumbnail, then record the image. Date
// extraction and thumbnailing are best-effort and never fail the upload.
func (s *ImageService) Upload(ctx context.Context, caller model.Caller, in UploadInput) (*model.Image, error) {
	if !caller.Authenticated && !s.allowAnonymous {
		return nil, ErrUnauthenticated
	}

	if len(in.Data) == 0 {
		return nil, ErrMissingFile
	}

	err := validation.ValidateFile(in.Filename, in.Data, s.constraints)
	if err != nil {
		return nil, invalid("%s", capitalize(err.Error()))
	}

	var dateTaken *model.Date
	if strings.TrimSpace(in.DateTaken) != "" {
		d, err := model.ParseDate(in.DateTaken)
		if err != nil {
			return nil, invalid("Invalid date_taken, expected YYYY-MM-DD")
		}
		dateTaken = &d
	}

	if in.AlbumID != nil {
		_, err := s.albumRepository.ByID(ctx, *in.AlbumID)
		if errors.Is(err, repository.ErrAlbumNotFound) {
			return nil, invalid("Album not found")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check album: %w", err)
		}
	}

	now := s.now().UTC()
	filename := s.generateFilename(in.Filename, now)

	err = s.storage.Save(ctx, filename, bytes.NewReader(in.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to store original: %w", err)
	}

	if dateTaken == nil {
		res := media.ExtractCaptureDate(in.Data)
		if res.Ok() {
			dateTaken = &res.Value
		} else {
			slog.Debug("no capture date", "filename", filename, "reason", res.Reason)
		}
	}

	thumb := s.renderThumbnail(ctx, filename, in.Data)
	if !thumb.Ok() {
		slog.Warn("thumbnail generation failed", "filename", filename, "error", thumb.Reason)
	}

	image := &model.Image{
		AlbumID:     in.AlbumID,
		UserID:      caller.UserID,
		Filename:    filename,
		Title:       optional(in.Title),
		Description: optional(in.Description),
		DateTaken:   dateTaken,
		CreatedAt:   now,
	}

	err = s.imageRepository.Create(ctx, image)
	if err != nil {
		// The original stays on disk; the orphan sweep reclaims it.
		return nil, fmt.Errorf("failed to record image: %w", err)
	}

	slog.Info("image uploaded", "image_id", image.ID, "filename", filename, "thumbnail", thumb.Ok())
	return image, nil
}

// generateFilename derives a unique, path-safe name from the client's file
// name and the ingestion time.
func (s *ImageService) generateFilename(original string, at time.Time) string {
	base, ext := validation.SanitizeFilename(original)
	return base + "_" + strconv.FormatInt(at.UnixNano(), 10) + ext
}

// renderThumbnail writes the side-car thumbnail for an original.
func (s *ImageService) renderThumbnail(ctx context.Context, filename string, data []byte) media.Result[string] {
	out, err := s.thumbnailer.Thumbnail(data)
	if err != nil {
		return media.Unavailable[string](err)
	}

	key := model.ThumbKey(filename)
	err = s.storage.Save(ctx, key, bytes.NewReader(out))
	if err != nil {
		return media.Unavailable[string](fmt.Errorf("store thumbnail: %w", err))
	}

	return media.Available(key)
}

func (s *ImageService) ByID(ctx context.Context, id int64) (*model.Image, error) {
	return s.imageRepository.ByID(ctx, id)
}

// Gallery lists images for the caller. Invalid sort keys fall back to
// creation time and any order other than "asc" means descending.
func (s *ImageService) Gallery(ctx context.Context, caller model.Caller, opts GalleryOptions) ([]*model.ImageSummary, error) {
	images, err := s.imageRepository.Gallery(ctx, repository.GalleryQuery{
		AlbumID:  opts.AlbumID,
		Sort:     opts.Sort,
		Order:    opts.Order,
		ViewerID: caller.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	for _, img := range images {
		if img.Description == nil || *img.Description == "" {
			continue
		}
		html, err := s.markdown.RenderString(*img.Description)
		if err != nil {
			slog.Warn("failed to render description", "image_id", img.ID, "error", err)
			continue
		}
		img.DescriptionHTML = &html
	}

	return images, nil
}

// Update edits title and description. Nil fields are left alone.
func (s *ImageService) Update(ctx context.Context, caller model.Caller, id int64, title, description *string) error {
	err := RequireAuthenticated(caller)
	if err != nil {
		return err
	}

	image, err := s.imageRepository.ByID(ctx, id)
	if err != nil {
		return err
	}

	if !CanModify(caller, image.UserID) {
		return ErrForbidden
	}

	if title == nil && description == nil {
		return invalid("No fields to update")
	}

	return s.imageRepository.Update(ctx, id, title, description)
}

// Delete removes the image row, then its original and thumbnail.
func (s *ImageService) Delete(ctx context.Context, caller model.Caller, id int64) error {
	err := RequireAuthenticated(caller)
	if err != nil {
		return err
	}

	image, err := s.imageRepository.ByID(ctx, id)
	if err != nil {
		return err
	}

	if !CanModify(caller, image.UserID) {
		return ErrForbidden
	}

	err = s.imageRepository.Delete(ctx, id)
	if err != nil {
		return err
	}

	removeImageFiles(ctx, s.storage, image.Filename)

	slog.Info("image deleted", "image_id", id, "filename", image.Filename)
	return nil
}

// Like records the caller's like. Liking twice changes nothing.
func (s *ImageService) Like(ctx context.Context, caller model.Caller, id int64) error {
	userID, err := RequireUser(caller)
	if err != nil {
		return err
	}

	_, err = s.imageRepository.ByID(ctx, id)
	if err != nil {
		return err
	}

	return s.likeRepository.Like(ctx, userID, id)
}

func (s *ImageService) Unlike(ctx context.Context, caller model.Caller, id int64) error {
	userID, err := RequireUser(caller)
	if err != nil {
		return err
	}

	return s.likeRepository.Unlike(ctx, userID, id)
}

// RegenerateThumbnails renders thumbnails for originals that lack one and
// returns how many were written. Images that already have a thumbnail, or
// whose original is gone, are skipped.
func (s *ImageService) RegenerateThumbnails(ctx context.Context) (int, error) {
	filenames, err := s.imageRepository.Filenames(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list images: %w", err)
	}

	generated := 0
	for _, filename := range filenames {
		if ctx.Err() != nil {
			return generated, ctx.Err()
		}

		hasOriginal, err := s.storage.Exists(ctx, filename)
		if err != nil {
			slog.Warn("failed to check original", "filename", filename, "error", err)
			continue
		}
		hasThumb, err := s.storage.Exists(ctx, model.ThumbKey(filename))
		if err != nil {
			slog.Warn("failed to check thumbnail", "filename", filename, "error", err)
			continue
		}
		if !hasOriginal || hasThumb {
			continue
		}

		data, err := readObject(ctx, s.storage, filename)
		if err != nil {
			slog.Warn("failed to read original", "filename", filename, "error", err)
			continue
		}

		res := s.renderThumbnail(ctx, filename, data)
		if !res.Ok() {
			slog.Warn("thumbnail generation failed", "filename", filename, "error", res.Reason)
			continue
		}
		generated++
	}

	slog.Info("thumbnail backfill finished", "images", len(filenames), "generated", generated)
	return generated, nil
}

// SweepOrphans finds stored files that no image row refers to. With remove
// set they are deleted as well; otherwise the sweep only reports.
func (s *ImageService) SweepOrphans(ctx context.Context, remove bool) ([]string, error) {
	filenames, err := s.imageRepository.Filenames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	known := make(map[string]bool, len(filenames))
	for _, f := range filenames {
		known[f] = true
	}

	keys, err := s.storage.List(ctx)
	if err != nil {
		return nil, err
	}

	var orphans []string
	for _, key := range keys {
		name := strings.TrimPrefix(key, model.ThumbsDir+"/")
		if path.Dir(name) == "." && known[name] {
			continue
		}
		orphans = append(orphans, key)

		if !remove {
			continue
		}
		err := s.storage.Delete(ctx, key)
		if err != nil {
			slog.Warn("failed to delete orphan", "key", key, "error", err)
		}
	}

	slog.Info("orphan sweep finished", "files", len(keys), "orphans", len(orphans), "deleted", remove)
	return orphans, nil
}

func readObject(ctx context.Context, st storage.Storage, key string) ([]byte, error) {
	rc, _, err := st.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return io.ReadAll(rc)
}

// removeImageFiles deletes an image's original and thumbnail. Failures are
// logged only: a leftover file is harmless, the row is already gone.
func removeImageFiles(ctx context.Context, st storage.Storage, filename string) {
	for _, key := range []string{filename, model.ThumbKey(filename)} {
		err := st.Delete(ctx, key)
		if err != nil {
			slog.Warn("failed to delete image file", "key", key, "error", err)
		}
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
