package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/templui/darkroom/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrLastUser       = errors.New("cannot delete the last remaining user")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id int64) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Pending(ctx context.Context) ([]*model.User, error)
	All(ctx context.Context) ([]*model.User, error)
	Approve(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	Stats(ctx context.Context, id int64) (*model.UserStats, error)
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (email, password_hash, approved, created_at) VALUES ($1, $2, $3, $4) RETURNING id`

	err := r.db.QueryRowxContext(ctx, query, user.Email, user.PasswordHash, user.Approved, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		// Check for unique constraint violation (works for both SQLite and PostgreSQL)
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(ctx context.Context, id int64) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email, password_hash, approved, created_at FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email, password_hash, approved, created_at FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) Pending(ctx context.Context) ([]*model.User, error) {
	users := []*model.User{}
	query := `SELECT id, email, password_hash, approved, created_at FROM users WHERE approved = $1 ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &users, query, false)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) All(ctx context.Context) ([]*model.User, error) {
	users := []*model.User{}
	query := `SELECT id, email, password_hash, approved, created_at FROM users ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) Approve(ctx context.Context, id int64) error {
	query := `UPDATE users SET approved = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, true, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowxContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func (r *userRepository) Stats(ctx context.Context, id int64) (*model.UserStats, error) {
	stats := &model.UserStats{}

	err := r.db.QueryRowxContext(ctx, `SELECT email FROM users WHERE id = $1`, id).Scan(&stats.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx, `SELECT COUNT(*) FROM images WHERE user_id = $1`, id).Scan(&stats.ImageCount)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`SELECT COUNT(*) FROM likes l JOIN images i ON l.image_id = i.id WHERE i.user_id = $1`, id).Scan(&stats.LikesCount)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx, `SELECT COUNT(*) FROM comments WHERE user_id = $1`, id).Scan(&stats.CommentsCount)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Delete removes the user together with their comments, likes, images and
// sessions. The store always keeps at least one user: deleting the last row
// fails with ErrLastUser.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowxContext(ctx, `SELECT COUNT(*) FROM users WHERE id = $1`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrUserNotFound
	}

	var total int
	err = tx.QueryRowxContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	if err != nil {
		return err
	}
	if total <= 1 {
		return ErrLastUser
	}

	cascade := []string{
		`DELETE FROM comments WHERE user_id = $1`,
		`DELETE FROM likes WHERE user_id = $1`,
		`DELETE FROM comments WHERE image_id IN (SELECT id FROM images WHERE user_id = $1)`,
		`DELETE FROM likes WHERE image_id IN (SELECT id FROM images WHERE user_id = $1)`,
		`DELETE FROM images WHERE user_id = $1`,
		`DELETE FROM sessions WHERE user_id = $1`,
	}
	for _, query := range cascade {
		_, err = tx.ExecContext(ctx, query, id)
		if err != nil {
			return err
		}
	}

	// Guarded delete: a concurrent deletion can't take the table to zero rows.
	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND (SELECT COUNT(*) FROM users) > 1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrLastUser
	}

	return tx.Commit()
}
