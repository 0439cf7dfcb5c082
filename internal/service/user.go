package service

import (
	"context"
	"strings"
	"time"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/repository/redisrepo"
	"github.com/BloggingApp/social-service/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const AVATARS_PREFIX = "avatars"

type userService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	uploader  storage.Uploader
	userTTL   time.Duration
	searchTTL time.Duration
}

func newUserService(deps Deps) *userService {
	return &userService{
		logger:    deps.Logger,
		repo:      deps.Repo,
		uploader:  deps.Uploader,
		userTTL:   deps.Options.UserCacheTTL,
		searchTTL: deps.Options.SearchCacheTTL,
	}
}

func (s *userService) FindByID(ctx context.Context, id uuid.UUID) (*model.UserWithoutPasswordHash, error) {
	key := redisrepo.UserKey(id)
	userCache, err := redisrepo.Get[model.UserWithoutPasswordHash](s.repo.Redis.Default, ctx, key)
	if err == nil {
		return userCache, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Warnf("failed to get user(%s) from redis: %s", id.String(), err.Error())
	}

	fullUser, err := s.repo.Postgres.User.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, internalError(s.logger, err, "failed to find user(%s) in postgres", id.String())
	}

	user := model.FullUserWithoutPasswordHashFromFullUser(*fullUser)
	if err := s.repo.Redis.Default.SetJSON(ctx, key, user, s.userTTL); err != nil {
		s.logger.Sugar().Warnf("failed to set user(%s) in redis: %s", id.String(), err.Error())
	}

	return &user, nil
}

func (s *userService) List(ctx context.Context, query dto.ListUsersQuery) (*dto.GetUsersDto, error) {
	page, limit, offset := pageBounds(query.Page, query.Limit)
	search := strings.TrimSpace(query.Search)

	key := redisrepo.SearchResultsKey(search, limit, offset)
	resultsCache, err := redisrepo.Get[dto.GetUsersDto](s.repo.Redis.Default, ctx, key)
	if err == nil {
		return resultsCache, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Warnf("failed to get search results(%s) from redis: %s", key, err.Error())
	}

	users, err := s.repo.Postgres.User.SearchByUsername(ctx, search, limit, offset)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to search users(%s) in postgres", search)
	}

	result := dto.GetUsersDto{
		Users: make([]model.UserWithoutPasswordHash, 0, len(users)),
		Page:  page,
		Limit: limit,
	}
	for _, u := range users {
		result.Users = append(result.Users, model.FullUserWithoutPasswordHashFromFullUser(*u))
	}
	if len(users) == limit {
		next := page + 1
		result.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		result.PrevPage = &prev
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, key, result, s.searchTTL); err != nil {
		s.logger.Sugar().Warnf("failed to set search results(%s) in redis: %s", key, err.Error())
	}

	return &result, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateUser) (*model.UserWithoutPasswordHash, error) {
	updates := map[string]interface{}{}
	if input.Username != nil {
		updates["username"] = strings.TrimSpace(*input.Username)
	}
	if input.PhoneNumber != nil {
		phoneNumber := strings.TrimSpace(*input.PhoneNumber)
		exists, err := s.repo.Postgres.User.ExistsWithPhoneNumber(ctx, phoneNumber, id)
		if err != nil {
			return nil, internalError(s.logger, err, "failed to check phone number in postgres")
		}
		if exists {
			return nil, ErrPhoneNumberAlreadyExists
		}
		updates["phone_number"] = phoneNumber
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if input.Origin != nil {
		updates["origin"] = *input.Origin
	}
	if input.Relationship != nil {
		relationship := model.Relationship(*input.Relationship)
		if !relationship.Valid() {
			return nil, ErrInvalidRelationship
		}
		updates["relationship"] = string(relationship)
	}
	if input.ProfilePicURL != nil {
		updates["profile_pic_url"] = *input.ProfilePicURL
	}
	if input.CoverPicURL != nil {
		updates["cover_pic_url"] = *input.CoverPicURL
	}

	if err := s.repo.Postgres.User.UpdateByID(ctx, id, updates); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		if conflict, ok := conflictError(err); ok {
			return nil, conflict
		}
		return nil, internalError(s.logger, err, "failed to update user(%s) in postgres", id.String())
	}

	s.invalidate(ctx, id)
	return s.FindByID(ctx, id)
}

func (s *userService) SetAvatar(ctx context.Context, id uuid.UUID, media Media) (*model.UserWithoutPasswordHash, error) {
	if !isImage(media.ContentType) {
		return nil, ErrInvalidMedia
	}

	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, storage.MediaKey(AVATARS_PREFIX, id, media.Filename), media.ContentType, media.Body)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to upload avatar of user(%s)", id.String())
	}

	if err := s.repo.Postgres.User.UpdateByID(ctx, id, map[string]interface{}{"profile_pic_url": url}); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, internalError(s.logger, err, "failed to set avatar of user(%s)", id.String())
	}

	s.invalidate(ctx, id)
	return s.FindByID(ctx, id)
}

func (s *userService) SetRoles(ctx context.Context, id uuid.UUID, roles dto.SetRoles) error {
	if err := s.repo.Postgres.User.SetRoles(ctx, id, roles.IsAdmin, roles.IsSuperAdmin); err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}
		return internalError(s.logger, err, "failed to set roles of user(%s)", id.String())
	}

	s.invalidate(ctx, id)
	return nil
}

// Delete removes the account and evicts every cached account whose follow
// lists referenced it.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.Postgres.User.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}
		return internalError(s.logger, err, "failed to find user(%s) in postgres", id.String())
	}

	if err := s.repo.Postgres.User.DeleteByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}
		return internalError(s.logger, err, "failed to delete user(%s) from postgres", id.String())
	}

	affected := append([]uuid.UUID{id}, user.Followers...)
	affected = append(affected, user.Following...)
	s.invalidate(ctx, affected...)
	return nil
}

func (s *userService) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserKeys(ids...)...); err != nil {
		s.logger.Sugar().Errorf("failed to delete users from redis: %s", err.Error())
	}
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
