package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/darkroom/internal/model"
)

var ErrAlbumNotFound = errors.New("album not found")

type AlbumRepository interface {
	Create(ctx context.Context, album *model.Album) error
	ByID(ctx context.Context, id int64) (*model.Album, error)
	List(ctx context.Context) ([]*model.Album, error)
	Update(ctx context.Context, album *model.Album) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type albumRepository struct {
	db *sqlx.DB
}

func NewAlbumRepository(db *sqlx.DB) AlbumRepository {
	return &albumRepository{db: db}
}

func (r *albumRepository) Create(ctx context.Context, album *model.Album) error {
	query := `INSERT INTO albums (name, is_public, created_at) VALUES ($1, $2, $3) RETURNING id`
	return r.db.QueryRowxContext(ctx, query, album.Name, album.IsPublic, album.CreatedAt).Scan(&album.ID)
}

func (r *albumRepository) ByID(ctx context.Context, id int64) (*model.Album, error) {
	album := &model.Album{}
	query := `
		SELECT a.id, a.name, a.is_public, a.created_at, COUNT(i.id) AS image_count
		FROM albums a
		LEFT JOIN images i ON i.album_id = a.id
		WHERE a.id = $1
		GROUP BY a.id, a.name, a.is_public, a.created_at
	`

	err := r.db.GetContext(ctx, album, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlbumNotFound
	}

	return album, err
}

func (r *albumRepository) List(ctx context.Context) ([]*model.Album, error) {
	albums := []*model.Album{}
	query := `
		SELECT a.id, a.name, a.is_public, a.created_at, COUNT(i.id) AS image_count
		FROM albums a
		LEFT JOIN images i ON i.album_id = a.id
		GROUP BY a.id, a.name, a.is_public, a.created_at
		ORDER BY a.created_at DESC, a.id DESC
	`

	err := r.db.SelectContext(ctx, &albums, query)
	if err != nil {
		return nil, err
	}

	return albums, nil
}

func (r *albumRepository) Update(ctx context.Context, album *model.Album) error {
	query := `UPDATE albums SET name = $1, is_public = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, album.Name, album.IsPublic, album.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrAlbumNotFound
	}

	return nil
}

// Delete removes the album and detaches its images; the images themselves
// are kept as orphans.
func (r *albumRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `UPDATE images SET album_id = NULL WHERE album_id = $1`, id)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM albums WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrAlbumNotFound
	}

	return tx.Commit()
}

func (r *albumRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowxContext(ctx, `SELECT COUNT(*) FROM albums`).Scan(&count)
	return count, err
}
