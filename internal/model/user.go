package model

import (
	"time"

	"github.com/google/uuid"
)

type Relationship string

const (
	RelationshipSingle         Relationship = "single"
	RelationshipMarried        Relationship = "married"
	RelationshipDivorced       Relationship = "divorced"
	RelationshipComplicated    Relationship = "complicated"
	RelationshipEngaged        Relationship = "engaged"
	RelationshipInRelationship Relationship = "in a relationship"
)

func (r Relationship) Valid() bool {
	switch r {
	case RelationshipSingle, RelationshipMarried, RelationshipDivorced,
		RelationshipComplicated, RelationshipEngaged, RelationshipInRelationship:
		return true
	}
	return false
}

type User struct {
	ID             uuid.UUID    `json:"id"`
	Username       string       `json:"username"`
	Email          string       `json:"email"`
	PhoneNumber    string       `json:"phone_number"`
	PasswordHash   string       `json:"-"`
	IsAdmin        bool         `json:"is_admin"`
	IsSuperAdmin   bool         `json:"is_super_admin"`
	FollowersCount int64        `json:"followers_count"`
	FollowingCount int64        `json:"following_count"`
	Bio            *string      `json:"bio"`
	City           *string      `json:"city"`
	Origin         *string      `json:"origin"`
	Relationship   Relationship `json:"relationship"`
	ProfilePicURL  *string      `json:"profile_pic_url"`
	CoverPicURL    *string      `json:"cover_pic_url"`

	PasswordResetTokenHash *string    `json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`
	PasswordChangedAt      *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullUser is a user together with both sides of its follow graph.
type FullUser struct {
	User
	Followers []uuid.UUID `json:"followers"`
	Following []uuid.UUID `json:"following"`
}

// UserWithoutPasswordHash is the only account shape handed to clients.
type UserWithoutPasswordHash struct {
	ID             uuid.UUID    `json:"id"`
	Username       string       `json:"username"`
	Email          string       `json:"email"`
	PhoneNumber    string       `json:"phone_number"`
	IsAdmin        bool         `json:"is_admin"`
	IsSuperAdmin   bool         `json:"is_super_admin"`
	Followers      []uuid.UUID  `json:"followers"`
	FollowersCount int64        `json:"followers_count"`
	Following      []uuid.UUID  `json:"following"`
	FollowingCount int64        `json:"following_count"`
	Bio            *string      `json:"bio"`
	City           *string      `json:"city"`
	Origin         *string      `json:"origin"`
	Relationship   Relationship `json:"relationship"`
	ProfilePicURL  *string      `json:"profile_pic_url"`
	CoverPicURL    *string      `json:"cover_pic_url"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func FullUserWithoutPasswordHashFromFullUser(u FullUser) UserWithoutPasswordHash {
	followers := u.Followers
	if followers == nil {
		followers = []uuid.UUID{}
	}
	following := u.Following
	if following == nil {
		following = []uuid.UUID{}
	}

	return UserWithoutPasswordHash{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		PhoneNumber:    u.PhoneNumber,
		IsAdmin:        u.IsAdmin,
		IsSuperAdmin:   u.IsSuperAdmin,
		Followers:      followers,
		FollowersCount: u.FollowersCount,
		Following:      following,
		FollowingCount: u.FollowingCount,
		Bio:            u.Bio,
		City:           u.City,
		Origin:         u.Origin,
		Relationship:   u.Relationship,
		ProfilePicURL:  u.ProfilePicURL,
		CoverPicURL:    u.CoverPicURL,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
