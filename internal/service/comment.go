package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/templui/darkroom/internal/model"
	"github.com/templui/darkroom/internal/repository"
)

const maxAuthorName = 100

type CommentService struct {
	commentRepository repository.CommentRepository
	imageRepository   repository.ImageRepository
}

func NewCommentService(commentRepository repository.CommentRepository, imageRepository repository.ImageRepository) *CommentService {
	return &CommentService{
		commentRepository: commentRepository,
		imageRepository:   imageRepository,
	}
}

func (s *CommentService) ForImage(ctx context.Context, imageID int64) ([]*model.Comment, error) {
	_, err := s.imageRepository.ByID(ctx, imageID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepository.ForImage(ctx, imageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// Create posts a comment. Signed-in users comment as themselves, everyone
// else under the name they give or DefaultAuthorName.
func (s *CommentService) Create(ctx context.Context, caller model.Caller, imageID int64, text, authorName string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("Comment text is required")
	}

	_, err := s.imageRepository.ByID(ctx, imageID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ImageID:   imageID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if caller.UserID != nil {
		comment.UserID = caller.UserID
	} else {
		name := strings.TrimSpace(authorName)
		if name == "" {
			name = model.DefaultAuthorName
		}
		if r := []rune(name); len(r) > maxAuthorName {
			name = string(r[:maxAuthorName])
		}
		comment.AuthorName = &name
	}

	err = s.commentRepository.Create(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, caller model.Caller, id int64) error {
	err := RequireAuthenticated(caller)
	if err != nil {
		return err
	}

	comment, err := s.commentRepository.ByID(ctx, id)
	if err != nil {
		return err
	}

	if !CanModify(caller, comment.UserID) {
		return ErrForbidden
	}

	return s.commentRepository.Delete(ctx, id)
}

// All is the admin moderation listing.
func (s *CommentService) All(ctx context.Context, caller model.Caller) ([]*model.Comment, error) {
	err := RequireAdmin(caller)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepository.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}
