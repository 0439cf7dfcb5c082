package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const postColumns = "p.id, p.user_id, p.body, p.media_url, p.like_count, p.dislike_count, p.created_at, p.updated_at"

type postRepo struct {
	db DB
}

func newPostRepo(db DB) Post {
	return &postRepo{
		db: db,
	}
}

func postDest(post *model.Post) []any {
	return []any{
		&post.ID,
		&post.UserID,
		&post.Body,
		&post.MediaURL,
		&post.LikeCount,
		&post.DislikeCount,
		&post.CreatedAt,
		&post.UpdatedAt,
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	post.ID = uuid.New()
	post.LikeCount = 0
	post.DislikeCount = 0
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO posts(id, user_id, body, media_url, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6)",
		post.ID,
		post.UserID,
		post.Body,
		post.MediaURL,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error) {
	var post model.FullPost
	dest := append(postDest(&post.Post), &post.LikedBy, &post.DislikedBy)
	if err := r.db.QueryRow(ctx, "SELECT "+postColumns+`,
	ARRAY(SELECT r.user_id FROM post_reactions r WHERE r.post_id = p.id AND r.kind = 'like'),
	ARRAY(SELECT r.user_id FROM post_reactions r WHERE r.post_id = p.id AND r.kind = 'dislike')
	FROM posts p
	WHERE p.id = $1
	`, id).Scan(dest...); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
	SELECT c.id, c.post_id, c.commenter_id, c.comment, c.created_at
	FROM post_comments c
	WHERE c.post_id = $1
	ORDER BY c.created_at, c.id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	post.Comments = []*model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID,
			&c.PostID,
			&c.CommenterID,
			&c.Comment,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		post.Comments = append(post.Comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindOwnerID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	if err := r.db.QueryRow(ctx, "SELECT p.user_id FROM posts p WHERE p.id = $1", id).Scan(&ownerID); err != nil {
		return uuid.Nil, err
	}

	return ownerID, nil
}

func (r *postRepo) UpdateBody(ctx context.Context, id uuid.UUID, body string) (*model.Post, error) {
	var post model.Post
	if err := r.db.QueryRow(ctx, `
	UPDATE posts p SET body = $1, updated_at = NOW()
	WHERE p.id = $2
	RETURNING `+postColumns, body, id).Scan(postDest(&post)...); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *postRepo) FindTimeline(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.Post, error) {
	maximumLimit(&limit)

	rows, err := r.db.Query(ctx, "SELECT "+postColumns+`
	FROM posts p
	WHERE p.user_id = $1 OR p.user_id IN (SELECT f.user_id FROM followers f WHERE f.follower_id = $1)
	ORDER BY p.created_at DESC
	LIMIT $2
	OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		var post model.Post
		if err := rows.Scan(postDest(&post)...); err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) ToggleLike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) (*model.Engagement, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var locked uuid.UUID
	if err := tx.QueryRow(ctx, "SELECT p.id FROM posts p WHERE p.id = $1 FOR UPDATE", postID).Scan(&locked); err != nil {
		return nil, err
	}

	current := model.ReactionNone
	var kind string
	err = tx.QueryRow(ctx, "SELECT r.kind FROM post_reactions r WHERE r.post_id = $1 AND r.user_id = $2", postID, userID).Scan(&kind)
	switch {
	case err == nil:
		current = model.Reaction(kind)
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, err
	}

	next := model.NextOnLike(current)
	if _, err := tx.Exec(ctx, `
	INSERT INTO post_reactions(post_id, user_id, kind) VALUES($1, $2, $3)
	ON CONFLICT (post_id, user_id) DO UPDATE SET kind = EXCLUDED.kind
	`, postID, userID, string(next)); err != nil {
		return nil, err
	}

	if err := recountPosts(ctx, tx, []uuid.UUID{postID}); err != nil {
		return nil, err
	}

	engagement := model.Engagement{PostID: postID, Reaction: next}
	if err := tx.QueryRow(ctx, "SELECT p.like_count, p.dislike_count FROM posts p WHERE p.id = $1", postID).Scan(
		&engagement.LikeCount,
		&engagement.DislikeCount,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &engagement, nil
}

func (r *postRepo) AddComment(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	comment.ID = uuid.New()
	comment.CreatedAt = time.Now()
	tag, err := r.db.Exec(
		ctx,
		`INSERT INTO post_comments(id, post_id, commenter_id, comment, created_at)
		SELECT $1, $2, $3, $4, $5
		WHERE EXISTS(SELECT 1 FROM posts p WHERE p.id = $2)`,
		comment.ID,
		comment.PostID,
		comment.CommenterID,
		comment.Comment,
		comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}

	return &comment, nil
}
