package model

import "github.com/google/uuid"

// Reaction is the engagement state of one account on one post.
// An account holds at most one reaction per post.
type Reaction string

const (
	ReactionNone    Reaction = ""
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// NextOnLike returns the state reached when an account in state r presses like.
// Liking an already liked post flips it to dislike rather than clearing it;
// clients rely on this two-state toggle.
func NextOnLike(r Reaction) Reaction {
	if r == ReactionLike {
		return ReactionDislike
	}
	return ReactionLike
}

type Engagement struct {
	PostID       uuid.UUID `json:"post_id"`
	Reaction     Reaction  `json:"reaction"`
	LikeCount    int64     `json:"like_count"`
	DislikeCount int64     `json:"dislike_count"`
}
