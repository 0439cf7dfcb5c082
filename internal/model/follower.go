package model

import "github.com/google/uuid"

// Follower is one edge of the follow graph: FollowerID follows UserID.
type Follower struct {
	UserID     uuid.UUID `json:"user_id"`
	FollowerID uuid.UUID `json:"follower_id"`
}

type FullFollower struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	ProfilePicURL *string   `json:"profile_pic_url"`
	Bio           *string   `json:"bio"`
}
