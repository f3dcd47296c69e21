package model

import (
	"time"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Approved     bool      `db:"approved" json:"approved"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserStats summarizes one account's activity.
type UserStats struct {
	Email         string `json:"email"`
	ImageCount    int    `json:"imageCount"`
	LikesCount    int    `json:"likesCount"`
	CommentsCount int    `json:"commentsCount"`
}

// SiteStats is the admin dashboard summary.
type SiteStats struct {
	Users  int `json:"users"`
	Images int `json:"images"`
	Albums int `json:"albums"`
	Likes  int `json:"likes"`
}
