package postgres

import (
	"context"
	"testing"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectToggle(mock pgxmock.PgxPoolIface, postID, userID uuid.UUID, current *string, next string, likes, dislikes int64) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT p.id FROM posts p WHERE p.id = \$1 FOR UPDATE`).
		WithArgs(postID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(postID))

	q := mock.ExpectQuery(`SELECT r.kind FROM post_reactions`).WithArgs(postID, userID)
	if current == nil {
		q.WillReturnError(pgx.ErrNoRows)
	} else {
		q.WillReturnRows(pgxmock.NewRows([]string{"kind"}).AddRow(*current))
	}

	mock.ExpectExec(`INSERT INTO post_reactions`).
		WithArgs(postID, userID, next).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE posts p SET`).
		WithArgs([]uuid.UUID{postID}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`SELECT p.like_count, p.dislike_count`).
		WithArgs(postID).
		WillReturnRows(pgxmock.NewRows([]string{"like_count", "dislike_count"}).AddRow(likes, dislikes))
	mock.ExpectCommit()
}

func TestToggleLike_Transitions(t *testing.T) {
	like, dislike := "like", "dislike"

	tests := []struct {
		name    string
		current *string
		next    model.Reaction
	}{
		{name: "neutral to liked", current: nil, next: model.ReactionLike},
		{name: "disliked to liked", current: &dislike, next: model.ReactionLike},
		{name: "liked to disliked", current: &like, next: model.ReactionDislike},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			postID, userID := uuid.New(), uuid.New()

			var likes, dislikes int64 = 1, 0
			if tt.next == model.ReactionDislike {
				likes, dislikes = 0, 1
			}
			expectToggle(mock, postID, userID, tt.current, string(tt.next), likes, dislikes)

			got, err := repo.Post.ToggleLike(context.Background(), postID, userID)
			require.NoError(t, err)
			assert.Equal(t, &model.Engagement{
				PostID:       postID,
				Reaction:     tt.next,
				LikeCount:    likes,
				DislikeCount: dislikes,
			}, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestToggleLike_MissingPost(t *testing.T) {
	repo, mock := newMockRepo(t)
	postID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT p.id FROM posts p WHERE p.id = \$1 FOR UPDATE`).
		WithArgs(postID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Post.ToggleLike(context.Background(), postID, uuid.New())
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddComment(t *testing.T) {
	repo, mock := newMockRepo(t)
	postID, userID := uuid.New(), uuid.New()

	mock.ExpectExec(`INSERT INTO post_comments`).
		WithArgs(pgxmock.AnyArg(), postID, userID, "nice", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	got, err := repo.Post.AddComment(context.Background(), model.Comment{PostID: postID, CommenterID: userID, Comment: "nice"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "nice", got.Comment)

	mock.ExpectExec(`INSERT INTO post_comments`).
		WithArgs(pgxmock.AnyArg(), postID, userID, "nice", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	_, err = repo.Post.AddComment(context.Background(), model.Comment{PostID: postID, CommenterID: userID, Comment: "nice"})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePost_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM posts`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Post.DeleteByID(context.Background(), id), pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
