package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Body         string    `json:"body"`
	MediaURL     *string   `json:"media_url"`
	LikeCount    int64     `json:"like_count"`
	DislikeCount int64     `json:"dislike_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Comment struct {
	ID          uuid.UUID `json:"id"`
	PostID      uuid.UUID `json:"post_id"`
	CommenterID uuid.UUID `json:"commenter_id"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

type FullPost struct {
	Post
	LikedBy    []uuid.UUID `json:"liked_by"`
	DislikedBy []uuid.UUID `json:"disliked_by"`
	Comments   []*Comment  `json:"comments"`
}
