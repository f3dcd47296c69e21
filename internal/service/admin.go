package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/templui/darkroom/internal/model"
	"github.com/templui/darkroom/internal/repository"
)

const recentImagesLimit = 5

// AdminOverview is the admin dashboard payload.
type AdminOverview struct {
	Stats        model.SiteStats      `json:"stats"`
	RecentImages []*model.RecentImage `json:"recentImages"`
	Users        []*model.User        `json:"users"`
}

type AdminService struct {
	userRepository  repository.UserRepository
	imageRepository repository.ImageRepository
	albumRepository repository.AlbumRepository
	likeRepository  repository.LikeRepository
	userService     *UserService
	emailService    *EmailService
}

func NewAdminService(
	userRepository repository.UserRepository,
	imageRepository repository.ImageRepository,
	albumRepository repository.AlbumRepository,
	likeRepository repository.LikeRepository,
	userService *UserService,
	emailService *EmailService,
) *AdminService {
	return &AdminService{
		userRepository:  userRepository,
		imageRepository: imageRepository,
		albumRepository: albumRepository,
		likeRepository:  likeRepository,
		userService:     userService,
		emailService:    emailService,
	}
}

func (s *AdminService) Overview(ctx context.Context, caller model.Caller) (*AdminOverview, error) {
	err := RequireAdmin(caller)
	if err != nil {
		return nil, err
	}

	var stats model.SiteStats
	counters := []struct {
		dst   *int
		count func(context.Context) (int, error)
	}{
		{&stats.Users, s.userRepository.Count},
		{&stats.Images, s.imageRepository.Count},
		{&stats.Albums, s.albumRepository.Count},
		{&stats.Likes, s.likeRepository.Count},
	}
	for _, c := range counters {
		*c.dst, err = c.count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count: %w", err)
		}
	}

	recent, err := s.imageRepository.Recent(ctx, recentImagesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent images: %w", err)
	}

	users, err := s.userRepository.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return &AdminOverview{Stats: stats, RecentImages: recent, Users: users}, nil
}

func (s *AdminService) PendingUsers(ctx context.Context, caller model.Caller) ([]*model.User, error) {
	err := RequireAdmin(caller)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepository.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}

	return users, nil
}

func (s *AdminService) ApproveUser(ctx context.Context, caller model.Caller, userID int64) error {
	err := RequireAdmin(caller)
	if err != nil {
		return err
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return err
	}

	err = s.userRepository.Approve(ctx, userID)
	if err != nil {
		return err
	}

	slog.Info("user approved", "user_id", userID)

	err = s.emailService.SendAccountApproved(ctx, user.Email)
	if err != nil {
		slog.Warn("failed to send approval email", "error", err, "user_id", userID)
	}

	return nil
}

// RejectUser deletes an account that is still waiting for approval.
func (s *AdminService) RejectUser(ctx context.Context, caller model.Caller, userID int64) error {
	err := RequireAdmin(caller)
	if err != nil {
		return err
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Approved {
		return invalid("User is not pending approval")
	}

	return s.userService.DeleteUser(ctx, userID)
}

func (s *AdminService) DeleteUser(ctx context.Context, caller model.Caller, userID int64) error {
	err := RequireAdmin(caller)
	if err != nil {
		return err
	}

	return s.userService.DeleteUser(ctx, userID)
}
