package model

import (
	"time"
)

type Album struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	IsPublic   bool      `db:"is_public" json:"is_public"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	ImageCount int       `db:"image_count" json:"image_count"`
}
