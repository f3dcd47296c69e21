package model

import (
	"time"
)

// DefaultAuthorName is used for anonymous comments that don't give a name.
const DefaultAuthorName = "Anonymous"

type Comment struct {
	ID         int64     `db:"id" json:"id"`
	ImageID    int64     `db:"image_id" json:"image_id"`
	UserID     *int64    `db:"user_id" json:"user_id"`
	AuthorName *string   `db:"author_name" json:"author_name"`
	Text       string    `db:"text" json:"text"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	// Joined fields
	Email      *string `db:"email" json:"email,omitempty"`
	ImageTitle *string `db:"image_title" json:"image_title,omitempty"`
}
