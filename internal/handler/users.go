package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		abortWithError(c, errInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) usersAll(c *gin.Context) {
	var query dto.ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWithBindingError(c, err)
		return
	}

	users, err := h.services.User.List(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("users fetched", users))
}

func (h *Handler) usersGet(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	user, err := h.services.User.FindByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("user fetched", user))
}

func (h *Handler) usersFollowers(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWithBindingError(c, err)
		return
	}

	followers, err := h.services.Follow.Followers(c.Request.Context(), id, query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("followers fetched", followers))
}

func (h *Handler) usersFollowing(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWithBindingError(c, err)
		return
	}

	following, err := h.services.Follow.Following(c.Request.Context(), id, query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("following fetched", following))
}

func (h *Handler) usersUpdate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input dto.UpdateUser
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}

	user, err := h.services.User.Update(c.Request.Context(), id, input)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("account updated", user))
}

func (h *Handler) usersSetAvatar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, errFileRequired)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer file.Close()

	user, err := h.services.User.SetAvatar(c.Request.Context(), id, service.Media{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("avatar updated", user))
}

func (h *Handler) usersFollow(c *gin.Context) {
	principal := getPrincipal(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.services.Follow.Follow(c.Request.Context(), principal.SubjectID, id); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "user followed"))
}

func (h *Handler) usersUnfollow(c *gin.Context) {
	principal := getPrincipal(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.services.Follow.Unfollow(c.Request.Context(), principal.SubjectID, id); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "user unfollowed"))
}

func (h *Handler) usersSetRoles(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input dto.SetRoles
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}

	if err := h.services.User.SetRoles(c.Request.Context(), id, input); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "roles updated"))
}

func (h *Handler) usersDelete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.services.User.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "account deleted"))
}
