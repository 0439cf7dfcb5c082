package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const MAX_LIMIT = 50

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type User interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.FullUser, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsWithEmail(ctx context.Context, email string) (bool, error)
	// ExistsWithPhoneNumber ignores the account identified by except.
	ExistsWithPhoneNumber(ctx context.Context, phoneNumber string, except uuid.UUID) (bool, error)
	UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	SetRoles(ctx context.Context, id uuid.UUID, isAdmin bool, isSuperAdmin bool) error
	SearchByUsername(ctx context.Context, username string, limit int, offset int) ([]*model.FullUser, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// Follow stores the edge and recounts both accounts in one transaction.
	// It reports false when the edge already existed.
	Follow(ctx context.Context, follower model.Follower) (bool, error)
	// Unfollow reports false when there was no edge to remove.
	Unfollow(ctx context.Context, follower model.Follower) (bool, error)
	FindUserFollowers(ctx context.Context, id uuid.UUID, limit int, offset int) ([]*model.FullFollower, error)
	FindUserFollowing(ctx context.Context, id uuid.UUID, limit int, offset int) ([]*model.FullFollower, error)

	SetPasswordResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
	ClearPasswordResetToken(ctx context.Context, id uuid.UUID) error
	// ResetPasswordByToken sets the password of the account holding an unexpired
	// tokenHash and clears the token. It returns pgx.ErrNoRows when no account matches.
	ResetPasswordByToken(ctx context.Context, tokenHash string, passwordHash string, now time.Time) (uuid.UUID, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error
}

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error)
	FindOwnerID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	UpdateBody(ctx context.Context, id uuid.UUID, body string) (*model.Post, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	FindTimeline(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.Post, error)

	// ToggleLike applies model.NextOnLike to the caller's reaction and recounts
	// the post in one transaction.
	ToggleLike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) (*model.Engagement, error)
	AddComment(ctx context.Context, comment model.Comment) (*model.Comment, error)
}

type PostgresRepository struct {
	User
	Post
}

func New(db DB) *PostgresRepository {
	return &PostgresRepository{
		User: newUserRepo(db),
		Post: newPostRepo(db),
	}
}

func maximumLimit(l *int) {
	if *l > MAX_LIMIT {
		*l = MAX_LIMIT
	}
}

// lockUsers takes row locks in id order and returns the ids that exist.
func lockUsers(ctx context.Context, tx pgx.Tx, ids ...uuid.UUID) ([]uuid.UUID, error) {
	rows, err := tx.Query(ctx, "SELECT id FROM users WHERE id = ANY($1) ORDER BY id FOR UPDATE", ids)
	if err != nil {
		return nil, err
	}

	return collectIDs(rows)
}

// lockPosts takes row locks in id order so a later recount reads a fresh snapshot.
func lockPosts(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	rows, err := tx.Query(ctx, "SELECT p.id FROM posts p WHERE p.id = ANY($1) ORDER BY p.id FOR UPDATE", ids)
	if err != nil {
		return err
	}

	_, err = collectIDs(rows)
	return err
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func recountUsers(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := tx.Exec(ctx, `
	UPDATE users u SET
	followers_count = (SELECT COUNT(*) FROM followers f WHERE f.user_id = u.id),
	following_count = (SELECT COUNT(*) FROM followers f WHERE f.follower_id = u.id),
	updated_at = NOW()
	WHERE u.id = ANY($1)
	`, ids)
	return err
}

func recountPosts(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := tx.Exec(ctx, `
	UPDATE posts p SET
	like_count = (SELECT COUNT(*) FROM post_reactions r WHERE r.post_id = p.id AND r.kind = 'like'),
	dislike_count = (SELECT COUNT(*) FROM post_reactions r WHERE r.post_id = p.id AND r.kind = 'dislike')
	WHERE p.id = ANY($1)
	`, ids)
	return err
}

func collectIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
