package model

import (
	"path"
	"time"
)

// ThumbsDir is the upload-root sub-directory holding derived thumbnails.
const ThumbsDir = "thumbs"

type Image struct {
	ID          int64     `db:"id" json:"id"`
	AlbumID     *int64    `db:"album_id" json:"album_id"`
	UserID      *int64    `db:"user_id" json:"user_id"`
	Filename    string    `db:"filename" json:"filename"`
	Title       *string   `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	DateTaken   *Date     `db:"date_taken" json:"date_taken"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// OriginalKey is the storage key of the uploaded original.
func (i *Image) OriginalKey() string {
	return i.Filename
}

// ThumbKey is the storage key of the derived thumbnail.
func (i *Image) ThumbKey() string {
	return ThumbKey(i.Filename)
}

func ThumbKey(filename string) string {
	return path.Join(ThumbsDir, filename)
}

// ImageSummary is one row of the gallery listing.
type ImageSummary struct {
	Image
	LikeCount       int     `db:"like_count" json:"like_count"`
	CommentCount    int     `db:"comment_count" json:"comment_count"`
	AlbumPublic     *bool   `db:"album_public" json:"album_public"`
	UserLiked       *bool   `db:"user_liked" json:"user_liked,omitempty"`
	DescriptionHTML *string `db:"-" json:"description_html,omitempty"`
}

// ImageVisibility is the join used to gate access to an original file.
type ImageVisibility struct {
	ID          int64  `db:"id"`
	AlbumID     *int64 `db:"album_id"`
	AlbumPublic *bool  `db:"album_public"`
}

// RecentImage is the short form shown on the admin dashboard.
type RecentImage struct {
	ID        int64     `db:"id" json:"id"`
	Filename  string    `db:"filename" json:"filename"`
	Title     *string   `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
