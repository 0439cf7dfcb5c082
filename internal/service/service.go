package service

import (
	"context"
	"io"
	"time"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/rabbitmq"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/storage"
	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Auth interface {
	Register(ctx context.Context, signUp dto.SignUp) (*model.UserWithoutPasswordHash, string, error)
	Authenticate(ctx context.Context, signIn dto.SignIn) (*model.UserWithoutPasswordHash, string, error)
}

type Password interface {
	RequestReset(ctx context.Context, email string) error
	ConsumeReset(ctx context.Context, rawToken string, newPassword string) error
	ChangePassword(ctx context.Context, id uuid.UUID, oldPassword string, newPassword string) error
}

type User interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.UserWithoutPasswordHash, error)
	List(ctx context.Context, query dto.ListUsersQuery) (*dto.GetUsersDto, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UpdateUser) (*model.UserWithoutPasswordHash, error)
	SetAvatar(ctx context.Context, id uuid.UUID, media Media) (*model.UserWithoutPasswordHash, error)
	SetRoles(ctx context.Context, id uuid.UUID, roles dto.SetRoles) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Follow interface {
	Follow(ctx context.Context, actorID uuid.UUID, targetID uuid.UUID) error
	Unfollow(ctx context.Context, actorID uuid.UUID, targetID uuid.UUID) error
	Followers(ctx context.Context, id uuid.UUID, query dto.PageQuery) ([]*model.FullFollower, error)
	Following(ctx context.Context, id uuid.UUID, query dto.PageQuery) ([]*model.FullFollower, error)
}

type Post interface {
	Create(ctx context.Context, ownerID uuid.UUID, body string, media *Media) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error)
	OwnerID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, body string) (*model.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Timeline(ctx context.Context, userID uuid.UUID, query dto.PageQuery) ([]*model.Post, error)
}

type Engagement interface {
	ToggleLike(ctx context.Context, accountID uuid.UUID, postID uuid.UUID) (*model.Engagement, error)
	Comment(ctx context.Context, accountID uuid.UUID, postID uuid.UUID, text string) (*model.Comment, error)
}

// Media is an uploaded file on its way to object storage.
type Media struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type Options struct {
	ResetTokenTTL  time.Duration
	BaseURL        string
	UserCacheTTL   time.Duration
	SearchCacheTTL time.Duration
}

type Deps struct {
	Logger    *zap.Logger
	Repo      *repository.Repository
	Publisher rabbitmq.Publisher
	Uploader  storage.Uploader
	Tokens    *utils.TokenIssuer
	Options   Options
	// Now defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	Auth       Auth
	Password   Password
	User       User
	Follow     Follow
	Post       Post
	Engagement Engagement
}

func New(deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	userService := newUserService(deps)
	return &Service{
		Auth:       newAuthService(deps, userService),
		Password:   newPasswordService(deps),
		User:       userService,
		Follow:     newFollowService(deps),
		Post:       newPostService(deps, userService),
		Engagement: newEngagementService(deps),
	}
}
