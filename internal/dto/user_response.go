package dto

import "github.com/BloggingApp/social-service/internal/model"

type AuthResponse struct {
	User        model.UserWithoutPasswordHash `json:"user"`
	AccessToken string                        `json:"access_token"`
}

type GetUsersDto struct {
	Users    []model.UserWithoutPasswordHash `json:"users"`
	Page     int                             `json:"page"`
	Limit    int                             `json:"limit"`
	NextPage *int                            `json:"next_page"`
	PrevPage *int                            `json:"prev_page"`
}
