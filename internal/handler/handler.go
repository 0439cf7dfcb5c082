package handler

import (
	"time"

	"github.com/BloggingApp/social-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	ClientOrigin   string
	RequestTimeout time.Duration
}

type Handler struct {
	logger   *zap.Logger
	services *service.Service
	tokens   TokenVerifier
	options  Options
}

func New(logger *zap.Logger, services *service.Service, tokens TokenVerifier, options Options) *Handler {
	return &Handler{
		logger:   logger,
		services: services,
		tokens:   tokens,
		options:  options,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), h.loggerMiddleware, h.timeoutMiddleware)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{h.options.ClientOrigin},
		AllowMethods:     []string{"POST", "GET", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		user := v1.Group("/user")
		{
			user.POST("/signUp", h.authSignUp)
			user.POST("/signIn", h.authSignIn)
			user.POST("/forgotPassword", h.authForgotPassword)
			user.PATCH("/resetPassword/:token", h.authResetPassword)
			user.PATCH("/changePassword", h.protected(anyAccount, h.authChangePassword)...)

			user.GET("/all", h.protected(anyAccount, h.usersAll)...)
			user.GET("/:id", h.protected(anyAccount, h.usersGet)...)
			user.GET("/:id/followers", h.protected(anyAccount, h.usersFollowers)...)
			user.GET("/:id/following", h.protected(anyAccount, h.usersFollowing)...)
			user.PUT("/update/:id", h.protected(accountOwner, h.usersUpdate)...)
			user.PUT("/:id/avatar", h.protected(accountOwner, h.usersSetAvatar)...)
			user.PUT("/:id/follow", h.protected(anyAccount, h.usersFollow)...)
			user.PUT("/:id/unfollow", h.protected(anyAccount, h.usersUnfollow)...)
			user.PUT("/:id/role", h.protected(superAdmin, h.usersSetRoles)...)
			user.DELETE("/delete/:id", h.protected(accountOwner, h.usersDelete)...)
		}

		post := v1.Group("/post")
		{
			post.POST("/create", h.protected(anyAccount, h.postsCreate)...)
			post.GET("/get/:id", h.protected(anyAccount, h.postsGet)...)
			post.GET("/timeline/:id", h.protected(anyAccount, h.postsTimeline)...)
			post.PUT("/update/:id", h.protected(postOwner, h.postsUpdate)...)
			post.DELETE("/delete/:id", h.protected(postOwner, h.postsDelete)...)
			post.PUT("/:id/like", h.protected(anyAccount, h.postsLike)...)
			post.POST("/:id/comment", h.protected(anyAccount, h.postsComment)...)
		}
	}

	return r
}
