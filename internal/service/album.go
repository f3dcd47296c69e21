package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/templui/darkroom/internal/model"
	"github.com/templui/darkroom/internal/repository"
	"github.com/templui/darkroom/internal/validation"
)

type AlbumService struct {
	albumRepository repository.AlbumRepository
}

func NewAlbumService(albumRepository repository.AlbumRepository) *AlbumService {
	return &AlbumService{albumRepository: albumRepository}
}

func (s *AlbumService) List(ctx context.Context) ([]*model.Album, error) {
	albums, err := s.albumRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return albums, nil
}

// Create adds an album. Albums are public unless isPublic says otherwise.
func (s *AlbumService) Create(ctx context.Context, caller model.Caller, name string, isPublic *bool) (*model.Album, error) {
	err := RequireAuthenticated(caller)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	err = validation.ValidateAlbumName(name)
	if err != nil {
		return nil, invalid("%s", capitalize(err.Error()))
	}

	album := &model.Album{
		Name:      name,
		IsPublic:  isPublic == nil || *isPublic,
		CreatedAt: time.Now().UTC(),
	}

	err = s.albumRepository.Create(ctx, album)
	if err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}

	return album, nil
}

// Update renames an album and optionally flips its visibility.
func (s *AlbumService) Update(ctx context.Context, caller model.Caller, id int64, name string, isPublic *bool) (*model.Album, error) {
	err := RequireAdmin(caller)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	err = validation.ValidateAlbumName(name)
	if err != nil {
		return nil, invalid("%s", capitalize(err.Error()))
	}

	album, err := s.albumRepository.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	album.Name = name
	if isPublic != nil {
		album.IsPublic = *isPublic
	}

	err = s.albumRepository.Update(ctx, album)
	if err != nil {
		return nil, err
	}

	return album, nil
}

// Delete removes an album. Its images stay, without an album.
func (s *AlbumService) Delete(ctx context.Context, caller model.Caller, id int64) error {
	err := RequireAdmin(caller)
	if err != nil {
		return err
	}

	return s.albumRepository.Delete(ctx, id)
}
