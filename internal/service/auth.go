package service

import (
	"context"
	"strings"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type authService struct {
	logger      *zap.Logger
	repo        *repository.Repository
	tokens      *utils.TokenIssuer
	userService User
}

func newAuthService(deps Deps, userService User) Auth {
	return &authService{
		logger:      deps.Logger,
		repo:        deps.Repo,
		tokens:      deps.Tokens,
		userService: userService,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, signUp dto.SignUp) (*model.UserWithoutPasswordHash, string, error) {
	signUp.Email = normalizeEmail(signUp.Email)
	signUp.Username = strings.TrimSpace(signUp.Username)
	signUp.PhoneNumber = strings.TrimSpace(signUp.PhoneNumber)

	emailExists, err := s.repo.Postgres.User.ExistsWithEmail(ctx, signUp.Email)
	if err != nil {
		return nil, "", internalError(s.logger, err, "failed to check email(%s) in postgres", signUp.Email)
	}
	if emailExists {
		return nil, "", ErrUserAlreadyExists
	}

	phoneExists, err := s.repo.Postgres.User.ExistsWithPhoneNumber(ctx, signUp.PhoneNumber, uuid.Nil)
	if err != nil {
		return nil, "", internalError(s.logger, err, "failed to check phone number in postgres")
	}
	if phoneExists {
		return nil, "", ErrPhoneNumberAlreadyExists
	}

	passwordHash, err := utils.HashPassword(signUp.Password)
	if err != nil {
		return nil, "", internalError(s.logger, err, "failed to generate password hash")
	}

	createdUser, err := s.repo.Postgres.User.Create(ctx, model.User{
		Username:     signUp.Username,
		Email:        signUp.Email,
		PhoneNumber:  signUp.PhoneNumber,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if conflict, ok := conflictError(err); ok {
			return nil, "", conflict
		}
		return nil, "", internalError(s.logger, err, "failed to create user in postgres")
	}

	token, err := s.tokens.Issue(utils.Principal{SubjectID: createdUser.ID})
	if err != nil {
		return nil, "", internalError(s.logger, err, "failed to issue token for user(%s)", createdUser.ID.String())
	}

	user := model.FullUserWithoutPasswordHashFromFullUser(model.FullUser{User: *createdUser})
	return &user, token, nil
}

func (s *authService) Authenticate(ctx context.Context, signIn dto.SignIn) (*model.UserWithoutPasswordHash, string, error) {
	email := normalizeEmail(signIn.Email)

	user, err := s.repo.Postgres.User.FindByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", ErrUserNotFound
		}
		return nil, "", internalError(s.logger, err, "failed to get user(%s) from postgres", email)
	}

	if !utils.ComparePassword(user.PasswordHash, signIn.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(utils.Principal{
		SubjectID:    user.ID,
		IsAdmin:      user.IsAdmin,
		IsSuperAdmin: user.IsSuperAdmin,
	})
	if err != nil {
		return nil, "", internalError(s.logger, err, "failed to issue token for user(%s)", user.ID.String())
	}

	account, err := s.userService.FindByID(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}
