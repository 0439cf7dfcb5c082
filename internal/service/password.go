package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/rabbitmq"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const RESET_PASSWORD_PATH = "/resetPassword/"

type passwordService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	publisher rabbitmq.Publisher
	resetTTL  time.Duration
	baseURL   string
	now       func() time.Time
}

func newPasswordService(deps Deps) Password {
	return &passwordService{
		logger:    deps.Logger,
		repo:      deps.Repo,
		publisher: deps.Publisher,
		resetTTL:  deps.Options.ResetTokenTTL,
		baseURL:   strings.TrimRight(deps.Options.BaseURL, "/"),
		now:       deps.Now,
	}
}

// RequestReset stores a fresh single-use token for the account and hands the
// raw token to the mailer queue. Only its hash is persisted.
func (s *passwordService) RequestReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.repo.Postgres.User.FindByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}
		return internalError(s.logger, err, "failed to get user(%s) from postgres", email)
	}

	rawToken, tokenHash, err := utils.NewResetToken()
	if err != nil {
		return internalError(s.logger, err, "failed to generate reset token")
	}

	expiresAt := s.now().Add(s.resetTTL)
	if err := s.repo.Postgres.User.SetPasswordResetToken(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return internalError(s.logger, err, "failed to store reset token for user(%s)", user.ID.String())
	}

	queueData, err := json.Marshal(&dto.RabbitMQForgotPasswordDto{
		Email:    user.Email,
		Username: user.Username,
		ResetURL: s.baseURL + RESET_PASSWORD_PATH + rawToken,
	})
	if err != nil {
		s.clearToken(ctx, user.ID)
		return internalError(s.logger, err, "failed to marshal json")
	}

	if err := s.publisher.Publish(ctx, rabbitmq.USER_FORGOT_PASSWORD_QUEUE, queueData); err != nil {
		s.clearToken(ctx, user.ID)
		return internalError(s.logger, err, "failed to publish to rabbitmq queue(%s)", rabbitmq.USER_FORGOT_PASSWORD_QUEUE)
	}

	return nil
}

// clearToken drops a token that never reached the user.
func (s *passwordService) clearToken(ctx context.Context, id uuid.UUID) {
	if err := s.repo.Postgres.User.ClearPasswordResetToken(context.WithoutCancel(ctx), id); err != nil {
		s.logger.Sugar().Errorf("failed to clear reset token of user(%s): %s", id.String(), err.Error())
	}
}

func (s *passwordService) ConsumeReset(ctx context.Context, rawToken string, newPassword string) error {
	if rawToken == "" {
		return ErrTokenExpiredOrInvalid
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return internalError(s.logger, err, "failed to generate password hash")
	}

	id, err := s.repo.Postgres.User.ResetPasswordByToken(ctx, utils.HashResetToken(rawToken), passwordHash, s.now())
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrTokenExpiredOrInvalid
		}
		return internalError(s.logger, err, "failed to reset password in postgres")
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *passwordService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword string, newPassword string) error {
	user, err := s.repo.Postgres.User.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}
		return internalError(s.logger, err, "failed to find user(%s) in postgres", id.String())
	}

	if !utils.ComparePassword(user.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	if oldPassword == newPassword {
		return ErrSamePassword
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return internalError(s.logger, err, "failed to generate password hash")
	}

	if err := s.repo.Postgres.User.UpdatePassword(ctx, id, passwordHash, s.now()); err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}
		return internalError(s.logger, err, "failed to update password of user(%s)", id.String())
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *passwordService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserKey(id)); err != nil {
		s.logger.Sugar().Errorf("failed to delete user(%s) from redis: %s", id.String(), err.Error())
	}
}
