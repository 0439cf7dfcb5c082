package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) postsCreate(c *gin.Context) {
	principal := getPrincipal(c)

	var input dto.CreatePost
	if err := c.ShouldBind(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}

	var media *service.Media
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		fileHeader, err := c.FormFile("file")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			abortWithBindingError(c, err)
			return
		default:
			file, err := fileHeader.Open()
			if err != nil {
				abortWithError(c, err)
				return
			}
			defer file.Close()

			media = &service.Media{
				Filename:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get("Content-Type"),
				Body:        file,
			}
		}
	}

	post, err := h.services.Post.Create(c.Request.Context(), principal.SubjectID, input.Body, media)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse("post created", post))
}

func (h *Handler) postsGet(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("post fetched", post))
}

func (h *Handler) postsTimeline(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWithBindingError(c, err)
		return
	}

	posts, err := h.services.Post.Timeline(c.Request.Context(), id, query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("timeline fetched", posts))
}

func (h *Handler) postsUpdate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input dto.UpdatePost
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}

	post, err := h.services.Post.Update(c.Request.Context(), id, input.Body)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("post updated", post))
}

func (h *Handler) postsDelete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "post deleted"))
}

func (h *Handler) postsLike(c *gin.Context) {
	principal := getPrincipal(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	engagement, err := h.services.Engagement.ToggleLike(c.Request.Context(), principal.SubjectID, id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("reaction updated", engagement))
}

func (h *Handler) postsComment(c *gin.Context) {
	principal := getPrincipal(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var input dto.CreateComment
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}

	comment, err := h.services.Engagement.Comment(c.Request.Context(), principal.SubjectID, id, input.Comment)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse("comment added", comment))
}
