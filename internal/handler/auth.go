package handler

import (
	"net/http"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) authSignUp(c *gin.Context) {
	var input dto.SignUp
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}

	user, token, err := h.services.Auth.Register(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse("user created", dto.AuthResponse{User: *user, AccessToken: token}))
}

func (h *Handler) authSignIn(c *gin.Context) {
	var input dto.SignIn
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}

	user, token, err := h.services.Auth.Authenticate(c.Request.Context(), input)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("logged in", dto.AuthResponse{User: *user, AccessToken: token}))
}

func (h *Handler) authForgotPassword(c *gin.Context) {
	var input dto.ForgotPassword
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}

	if err := h.services.Password.RequestReset(c.Request.Context(), input.Email); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "password reset link sent to your email"))
}

func (h *Handler) authResetPassword(c *gin.Context) {
	var input dto.ResetPassword
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}

	if err := h.services.Password.ConsumeReset(c.Request.Context(), c.Param("token"), input.Password); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "password updated"))
}

func (h *Handler) authChangePassword(c *gin.Context) {
	principal := getPrincipal(c)

	var input dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}

	if err := h.services.Password.ChangePassword(c.Request.Context(), principal.SubjectID, input.OldPassword, input.NewPassword); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "password updated"))
}
