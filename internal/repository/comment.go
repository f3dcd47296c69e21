package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/darkroom/internal/model"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	ByID(ctx context.Context, id int64) (*model.Comment, error)
	ForImage(ctx context.Context, imageID int64) ([]*model.Comment, error)
	All(ctx context.Context) ([]*model.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO comments (image_id, user_id, author_name, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.QueryRowxContext(ctx, query,
		comment.ImageID,
		comment.UserID,
		comment.AuthorName,
		comment.Text,
		comment.CreatedAt,
	).Scan(&comment.ID)
}

func (r *commentRepository) ByID(ctx context.Context, id int64) (*model.Comment, error) {
	comment := &model.Comment{}
	query := `SELECT id, image_id, user_id, author_name, text, created_at FROM comments WHERE id = $1`

	err := r.db.GetContext(ctx, comment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCommentNotFound
	}

	return comment, err
}

// ForImage lists an image's comments oldest first, with the commenter's email
// when the comment belongs to an account.
func (r *commentRepository) ForImage(ctx context.Context, imageID int64) ([]*model.Comment, error) {
	comments := []*model.Comment{}
	query := `
		SELECT c.id, c.image_id, c.user_id, c.author_name, c.text, c.created_at, u.email
		FROM comments c
		LEFT JOIN users u ON c.user_id = u.id
		WHERE c.image_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`

	err := r.db.SelectContext(ctx, &comments, query, imageID)
	if err != nil {
		return nil, err
	}

	return comments, nil
}

// All is the moderation view: every comment, newest first.
func (r *commentRepository) All(ctx context.Context) ([]*model.Comment, error) {
	comments := []*model.Comment{}
	query := `
		SELECT c.id, c.image_id, c.user_id, c.author_name, c.text, c.created_at, u.email, i.title AS image_title
		FROM comments c
		LEFT JOIN users u ON c.user_id = u.id
		LEFT JOIN images i ON c.image_id = i.id
		ORDER BY c.created_at DESC, c.id DESC
	`

	err := r.db.SelectContext(ctx, &comments, query)
	if err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrCommentNotFound
	}

	return nil
}
