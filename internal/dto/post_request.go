package dto

type CreatePost struct {
	Body string `form:"desc" json:"desc" binding:"required,max=500"`
}

type UpdatePost struct {
	Body string `json:"desc" binding:"required,max=500"`
}

type CreateComment struct {
	Comment string `json:"comment" binding:"required,max=500"`
}
