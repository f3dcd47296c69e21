package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/templui/darkroom/internal/model"
)

var ErrImageNotFound = errors.New("image not found")

// Gallery sort keys
const (
	SortCreatedAt = "created_at"
	SortDateTaken = "date_taken"
	SortTitle     = "title"
	SortLikeCount = "like_count"
)

// Gallery sort directions
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// GalleryQuery selects and orders the gallery listing. ViewerID is the
// caller's user id; when nil the per-viewer like flag is left out entirely.
type GalleryQuery struct {
	AlbumID  *int64
	Sort     string
	Order    string
	ViewerID *int64
}

type ImageRepository interface {
	Create(ctx context.Context, image *model.Image) error
	ByID(ctx context.Context, id int64) (*model.Image, error)
	Gallery(ctx context.Context, q GalleryQuery) ([]*model.ImageSummary, error)
	Visibility(ctx context.Context, filename string) (*model.ImageVisibility, error)
	Update(ctx context.Context, id int64, title, description *string) error
	Delete(ctx context.Context, id int64) error
	Filenames(ctx context.Context) ([]string, error)
	FilenamesByUser(ctx context.Context, userID int64) ([]string, error)
	Recent(ctx context.Context, limit int) ([]*model.RecentImage, error)
	Count(ctx context.Context) (int, error)
}

type imageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *model.Image) error {
	query := `
		INSERT INTO images (album_id, user_id, filename, title, description, date_taken, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.db.QueryRowxContext(ctx, query,
		image.AlbumID,
		image.UserID,
		image.Filename,
		image.Title,
		image.Description,
		image.DateTaken,
		image.CreatedAt,
	).Scan(&image.ID)
}

func (r *imageRepository) ByID(ctx context.Context, id int64) (*model.Image, error) {
	image := &model.Image{}
	query := `
		SELECT id, album_id, user_id, filename, title, description, date_taken, created_at
		FROM images WHERE id = $1
	`

	err := r.db.GetContext(ctx, image, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImageNotFound
	}

	return image, err
}

func (r *imageRepository) Gallery(ctx context.Context, q GalleryQuery) ([]*model.ImageSummary, error) {
	query, args := buildGalleryQuery(q)

	images := []*model.ImageSummary{}
	err := r.db.SelectContext(ctx, &images, query, args...)
	if err != nil {
		return nil, err
	}

	return images, nil
}

// buildGalleryQuery renders the listing query. Sort and order are taken
// from a fixed allowlist, never interpolated from input.
func buildGalleryQuery(q GalleryQuery) (string, []any) {
	var args []any
	var b strings.Builder

	b.WriteString(`SELECT i.id, i.album_id, i.user_id, i.filename, i.title, i.description, i.date_taken, i.created_at,
		a.is_public AS album_public,
		COUNT(l.image_id) AS like_count,
		(SELECT COUNT(*) FROM comments c WHERE c.image_id = i.id) AS comment_count`)

	if q.ViewerID != nil {
		args = append(args, *q.ViewerID)
		fmt.Fprintf(&b, `,
		MAX(CASE WHEN l.user_id = $%d THEN 1 ELSE 0 END) AS user_liked`, len(args))
	}

	b.WriteString(`
		FROM images i
		LEFT JOIN albums a ON a.id = i.album_id
		LEFT JOIN likes l ON l.image_id = i.id`)

	if q.AlbumID != nil {
		args = append(args, *q.AlbumID)
		fmt.Fprintf(&b, `
		WHERE i.album_id = $%d`, len(args))
	}

	b.WriteString(`
		GROUP BY i.id, i.album_id, i.user_id, i.filename, i.title, i.description, i.date_taken, i.created_at, a.is_public
		ORDER BY `)
	b.WriteString(galleryOrderBy(q.Sort, q.Order))

	return b.String(), args
}

// galleryOrderBy maps a sort key and direction onto an ORDER BY clause.
// Nullable keys always put NULL rows last, whatever the direction.
func galleryOrderBy(sort, order string) string {
	dir := "DESC"
	if strings.ToLower(order) == OrderAsc {
		dir = "ASC"
	}

	switch sort {
	case SortDateTaken:
		return "i.date_taken IS NULL, i.date_taken " + dir + ", i.created_at " + dir
	case SortTitle:
		return "i.title IS NULL, i.title " + dir + ", i.created_at " + dir
	case SortLikeCount:
		return "like_count " + dir + ", i.created_at " + dir
	default: // SortCreatedAt or unknown
		return "i.created_at " + dir + ", i.id DESC"
	}
}

// Visibility looks up the image stored under filename together with its
// album's visibility flag. AlbumPublic is nil for orphans and for album
// references that no longer resolve.
func (r *imageRepository) Visibility(ctx context.Context, filename string) (*model.ImageVisibility, error) {
	v := &model.ImageVisibility{}
	query := `
		SELECT i.id, i.album_id, a.is_public AS album_public
		FROM images i
		LEFT JOIN albums a ON a.id = i.album_id
		WHERE i.filename = $1
	`

	err := r.db.GetContext(ctx, v, query, filename)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImageNotFound
	}

	return v, err
}

// Update sets the given fields and leaves nil ones untouched.
func (r *imageRepository) Update(ctx context.Context, id int64, title, description *string) error {
	var sets []string
	var args []any

	if title != nil {
		args = append(args, *title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if description != nil {
		args = append(args, *description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE images SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrImageNotFound
	}

	return nil
}

func (r *imageRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `DELETE FROM comments WHERE image_id = $1`, id)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM likes WHERE image_id = $1`, id)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrImageNotFound
	}

	return tx.Commit()
}

func (r *imageRepository) Filenames(ctx context.Context) ([]string, error) {
	names := []string{}
	err := r.db.SelectContext(ctx, &names, `SELECT filename FROM images ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *imageRepository) FilenamesByUser(ctx context.Context, userID int64) ([]string, error) {
	names := []string{}
	err := r.db.SelectContext(ctx, &names, `SELECT filename FROM images WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *imageRepository) Recent(ctx context.Context, limit int) ([]*model.RecentImage, error) {
	images := []*model.RecentImage{}
	query := `SELECT id, filename, title, created_at FROM images ORDER BY created_at DESC, id DESC LIMIT $1`

	err := r.db.SelectContext(ctx, &images, query, limit)
	if err != nil {
		return nil, err
	}

	return images, nil
}

func (r *imageRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowxContext(ctx, `SELECT COUNT(*) FROM images`).Scan(&count)
	return count, err
}
