package dto

import "github.com/google/uuid"

type RabbitMQForgotPasswordDto struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	ResetURL string `json:"reset_url"`
}

const (
	FollowActionFollow   = "follow"
	FollowActionUnfollow = "unfollow"
)

type RabbitMQFollowDto struct {
	UserID     uuid.UUID `json:"user_id"`
	FollowerID uuid.UUID `json:"follower_id"`
	Action     string    `json:"action"`
}
