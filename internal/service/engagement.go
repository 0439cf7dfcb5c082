package service

import (
	"context"
	"strings"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type engagementService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newEngagementService(deps Deps) Engagement {
	return &engagementService{
		logger: deps.Logger,
		repo:   deps.Repo,
	}
}

func (s *engagementService) ToggleLike(ctx context.Context, accountID uuid.UUID, postID uuid.UUID) (*model.Engagement, error) {
	engagement, err := s.repo.Postgres.Post.ToggleLike(ctx, postID, accountID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, internalError(s.logger, err, "failed to toggle like of post(%s) by user(%s)", postID.String(), accountID.String())
	}

	return engagement, nil
}

func (s *engagementService) Comment(ctx context.Context, accountID uuid.UUID, postID uuid.UUID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrBlankText
	}

	comment, err := s.repo.Postgres.Post.AddComment(ctx, model.Comment{
		PostID:      postID,
		CommenterID: accountID,
		Comment:     text,
	})
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, internalError(s.logger, err, "failed to comment post(%s) by user(%s)", postID.String(), accountID.String())
	}

	return comment, nil
}
