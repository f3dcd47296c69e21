package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/darkroom/internal/model"
	"github.com/templui/darkroom/internal/repository"
	"github.com/templui/darkroom/internal/storage"
)

var ErrAdminAccount = errors.New("admin accounts cannot be deleted this way")

type UserService struct {
	userRepository    repository.UserRepository
	imageRepository   repository.ImageRepository
	sessionRepository repository.SessionRepository
	storage           storage.Storage
}

func NewUserService(
	userRepository repository.UserRepository,
	imageRepository repository.ImageRepository,
	sessionRepository repository.SessionRepository,
	storage storage.Storage,
) *UserService {
	return &UserService{
		userRepository:    userRepository,
		imageRepository:   imageRepository,
		sessionRepository: sessionRepository,
		storage:           storage,
	}
}

// Me returns the caller's account, nil for the admin-fallback identity.
func (s *UserService) Me(ctx context.Context, caller model.Caller) (*model.User, error) {
	err := RequireAuthenticated(caller)
	if err != nil {
		return nil, err
	}
	if caller.UserID == nil {
		return nil, nil
	}

	user, err := s.userRepository.ByID(ctx, *caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (s *UserService) Stats(ctx context.Context, caller model.Caller) (*model.UserStats, error) {
	userID, err := RequireUser(caller)
	if err != nil {
		return nil, err
	}

	stats, err := s.userRepository.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	return stats, nil
}

// DeleteAccount removes the caller's own account.
func (s *UserService) DeleteAccount(ctx context.Context, caller model.Caller) error {
	err := RequireAuthenticated(caller)
	if err != nil {
		return err
	}
	if caller.UserID == nil {
		return ErrAdminAccount
	}

	return s.DeleteUser(ctx, *caller.UserID)
}

// DeleteUser removes a user with everything they own. The last remaining
// user can't be deleted. Image files are cleaned up after the rows are gone.
func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	filenames, err := s.imageRepository.FilenamesByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list user images: %w", err)
	}

	err = s.userRepository.Delete(ctx, userID)
	if err != nil {
		return err
	}

	for _, filename := range filenames {
		removeImageFiles(ctx, s.storage, filename)
	}

	slog.Info("user deleted", "user_id", userID, "images", len(filenames))
	return nil
}
