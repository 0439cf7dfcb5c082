package service

import (
	"context"
	"strings"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const POSTS_PREFIX = "posts"

type postService struct {
	logger      *zap.Logger
	repo        *repository.Repository
	uploader    storage.Uploader
	userService User
}

func newPostService(deps Deps, userService User) Post {
	return &postService{
		logger:      deps.Logger,
		repo:        deps.Repo,
		uploader:    deps.Uploader,
		userService: userService,
	}
}

func (s *postService) Create(ctx context.Context, ownerID uuid.UUID, body string, media *Media) (*model.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrBlankText
	}

	post := model.Post{
		UserID: ownerID,
		Body:   body,
	}

	if media != nil {
		if !isImage(media.ContentType) {
			return nil, ErrInvalidMedia
		}

		url, err := s.uploader.Upload(ctx, storage.MediaKey(POSTS_PREFIX, ownerID, media.Filename), media.ContentType, media.Body)
		if err != nil {
			return nil, internalError(s.logger, err, "failed to upload media of user(%s)", ownerID.String())
		}
		post.MediaURL = &url
	}

	createdPost, err := s.repo.Postgres.Post.Create(ctx, post)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to create post of user(%s)", ownerID.String())
	}

	return createdPost, nil
}

func (s *postService) FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, internalError(s.logger, err, "failed to find post(%s) in postgres", id.String())
	}

	return post, nil
}

func (s *postService) OwnerID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	ownerID, err := s.repo.Postgres.Post.FindOwnerID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, ErrPostNotFound
		}
		return uuid.Nil, internalError(s.logger, err, "failed to find owner of post(%s)", id.String())
	}

	return ownerID, nil
}

func (s *postService) Update(ctx context.Context, id uuid.UUID, body string) (*model.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrBlankText
	}

	post, err := s.repo.Postgres.Post.UpdateBody(ctx, id, body)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, internalError(s.logger, err, "failed to update post(%s)", id.String())
	}

	return post, nil
}

func (s *postService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Postgres.Post.DeleteByID(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrPostNotFound
		}
		return internalError(s.logger, err, "failed to delete post(%s)", id.String())
	}

	return nil
}

// Timeline returns the user's own posts and those of the accounts they follow, newest first.
func (s *postService) Timeline(ctx context.Context, userID uuid.UUID, query dto.PageQuery) ([]*model.Post, error) {
	if _, err := s.userService.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	_, limit, offset := pageBounds(query.Page, query.Limit)
	posts, err := s.repo.Postgres.Post.FindTimeline(ctx, userID, limit, offset)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to find timeline of user(%s)", userID.String())
	}

	return posts, nil
}
