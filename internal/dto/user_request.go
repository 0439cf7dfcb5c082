package dto

type SignUp struct {
	Username    string `json:"username" binding:"required,min=3,max=20"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=72"`
	PhoneNumber string `json:"phone_number" binding:"required,numeric,min=7,max=15"`
}

type SignIn struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

// UpdateUser carries the profile fields a user may change. Nil fields are left untouched.
type UpdateUser struct {
	Username      *string `json:"username" binding:"omitempty,min=3,max=20"`
	PhoneNumber   *string `json:"phone_number" binding:"omitempty,numeric,min=7,max=15"`
	Bio           *string `json:"desc" binding:"omitempty,max=50"`
	City          *string `json:"city" binding:"omitempty,max=50"`
	Origin        *string `json:"from" binding:"omitempty,max=50"`
	Relationship  *string `json:"relationship" binding:"omitempty,oneof=single married divorced complicated engaged 'in a relationship'"`
	ProfilePicURL *string `json:"profile_pics" binding:"omitempty,url"`
	CoverPicURL   *string `json:"cover_pics" binding:"omitempty,url"`
}

type ForgotPassword struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPassword struct {
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

type SetRoles struct {
	IsAdmin      bool `json:"is_admin"`
	IsSuperAdmin bool `json:"is_super_admin"`
}

type ListUsersQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1,max=100000"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
	Search string `form:"search" binding:"omitempty,max=50"`
}

type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1,max=100000"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}
