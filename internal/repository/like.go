package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type LikeRepository interface {
	Like(ctx context.Context, userID, imageID int64) error
	Unlike(ctx context.Context, userID, imageID int64) error
	CountForImage(ctx context.Context, imageID int64) (int, error)
	Count(ctx context.Context) (int, error)
}

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Like is insert-if-absent: the (user_id, image_id) unique constraint turns a
// repeated like into a no-op.
func (r *likeRepository) Like(ctx context.Context, userID, imageID int64) error {
	query := `
		INSERT INTO likes (user_id, image_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, image_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID, imageID, time.Now().UTC())
	return err
}

func (r *likeRepository) Unlike(ctx context.Context, userID, imageID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = $1 AND image_id = $2`, userID, imageID)
	return err
}

func (r *likeRepository) CountForImage(ctx context.Context, imageID int64) (int, error) {
	var count int
	err := r.db.QueryRowxContext(ctx, `SELECT COUNT(*) FROM likes WHERE image_id = $1`, imageID).Scan(&count)
	return count, err
}

func (r *likeRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowxContext(ctx, `SELECT COUNT(*) FROM likes`).Scan(&count)
	return count, err
}
