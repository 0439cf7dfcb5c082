package service

import (
	"context"
	"encoding/json"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/rabbitmq"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type followService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	publisher rabbitmq.Publisher
}

func newFollowService(deps Deps) Follow {
	return &followService{
		logger:    deps.Logger,
		repo:      deps.Repo,
		publisher: deps.Publisher,
	}
}

func (s *followService) Follow(ctx context.Context, actorID uuid.UUID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfFollow
	}

	created, err := s.repo.Postgres.User.Follow(ctx, model.Follower{UserID: targetID, FollowerID: actorID})
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}
		return internalError(s.logger, err, "failed to follow user(%s) by user(%s)", targetID.String(), actorID.String())
	}
	if !created {
		return ErrAlreadyFollowing
	}

	s.afterEdgeChange(ctx, targetID, actorID, dto.FollowActionFollow)
	return nil
}

func (s *followService) Unfollow(ctx context.Context, actorID uuid.UUID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrSelfUnfollow
	}

	removed, err := s.repo.Postgres.User.Unfollow(ctx, model.Follower{UserID: targetID, FollowerID: actorID})
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}
		return internalError(s.logger, err, "failed to unfollow user(%s) by user(%s)", targetID.String(), actorID.String())
	}
	if !removed {
		return ErrNotFollowing
	}

	s.afterEdgeChange(ctx, targetID, actorID, dto.FollowActionUnfollow)
	return nil
}

// afterEdgeChange evicts both accounts and announces the change. The edge is
// already committed, so failures here are only logged.
func (s *followService) afterEdgeChange(ctx context.Context, userID uuid.UUID, followerID uuid.UUID, action string) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserKeys(userID, followerID)...); err != nil {
		s.logger.Sugar().Errorf("failed to delete users(%s, %s) from redis: %s", userID.String(), followerID.String(), err.Error())
	}

	queueData, err := json.Marshal(&dto.RabbitMQFollowDto{
		UserID:     userID,
		FollowerID: followerID,
		Action:     action,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to marshal json: %s", err.Error())
		return
	}

	if err := s.publisher.Publish(ctx, rabbitmq.FOLLOWS_QUEUE, queueData); err != nil {
		s.logger.Sugar().Errorf("failed to publish to rabbitmq queue(%s): %s", rabbitmq.FOLLOWS_QUEUE, err.Error())
	}
}

func (s *followService) Followers(ctx context.Context, id uuid.UUID, query dto.PageQuery) ([]*model.FullFollower, error) {
	_, limit, offset := pageBounds(query.Page, query.Limit)

	followers, err := s.repo.Postgres.User.FindUserFollowers(ctx, id, limit, offset)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to find followers of user(%s)", id.String())
	}

	return followers, nil
}

func (s *followService) Following(ctx context.Context, id uuid.UUID, query dto.PageQuery) ([]*model.FullFollower, error) {
	_, limit, offset := pageBounds(query.Page, query.Limit)

	following, err := s.repo.Postgres.User.FindUserFollowing(ctx, id, limit, offset)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to find following of user(%s)", id.String())
	}

	return following, nil
}
