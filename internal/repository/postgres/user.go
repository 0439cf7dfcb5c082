package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `u.id, u.username, u.email, u.phone_number, u.password_hash, u.is_admin, u.is_super_admin,
	u.followers_count, u.following_count, u.bio, u.city, u.origin, u.relationship, u.profile_pic_url, u.cover_pic_url,
	u.password_reset_token_hash, u.password_reset_expires_at, u.password_changed_at, u.created_at, u.updated_at`

const fullUserColumns = userColumns + `,
	ARRAY(SELECT f.follower_id FROM followers f WHERE f.user_id = u.id ORDER BY f.created_at),
	ARRAY(SELECT f.user_id FROM followers f WHERE f.follower_id = u.id ORDER BY f.created_at)`

type userRepo struct {
	db DB
}

func newUserRepo(db DB) User {
	return &userRepo{
		db: db,
	}
}

func userDest(user *model.User) []any {
	return []any{
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PhoneNumber,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.IsSuperAdmin,
		&user.FollowersCount,
		&user.FollowingCount,
		&user.Bio,
		&user.City,
		&user.Origin,
		&user.Relationship,
		&user.ProfilePicURL,
		&user.CoverPicURL,
		&user.PasswordResetTokenHash,
		&user.PasswordResetExpiresAt,
		&user.PasswordChangedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
}

func scanFullUser(row pgx.Row) (*model.FullUser, error) {
	var user model.FullUser
	dest := append(userDest(&user.User), &user.Followers, &user.Following)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	user.ID = uuid.New()
	user.IsAdmin = false
	user.IsSuperAdmin = false
	user.FollowersCount = 0
	user.FollowingCount = 0
	if user.Relationship == "" {
		user.Relationship = model.RelationshipSingle
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO users(id, username, email, phone_number, password_hash, relationship, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6, $7, $8)",
		user.ID,
		user.Username,
		user.Email,
		user.PhoneNumber,
		user.PasswordHash,
		user.Relationship,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FullUser, error) {
	return scanFullUser(r.db.QueryRow(ctx, "SELECT "+fullUserColumns+" FROM users u WHERE u.id = $1", id))
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users u WHERE u.email = $1", email).Scan(userDest(&user)...); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) ExistsWithEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users u WHERE u.email = $1)", email).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *userRepo) ExistsWithPhoneNumber(ctx context.Context, phoneNumber string, except uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users u WHERE u.phone_number = $1 AND u.id <> $2)", phoneNumber, except).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

var updatableUserFields = map[string]struct{}{
	"username":        {},
	"phone_number":    {},
	"bio":             {},
	"city":            {},
	"origin":          {},
	"relationship":    {},
	"profile_pic_url": {},
	"cover_pic_url":   {},
}

func (r *userRepo) UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	for field := range updates {
		if _, ok := updatableUserFields[field]; !ok {
			delete(updates, field)
		}
	}

	if len(updates) == 0 {
		return nil
	}

	query := "UPDATE users SET "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	query += "updated_at = NOW() WHERE id = $" + strconv.Itoa(i)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *userRepo) SetRoles(ctx context.Context, id uuid.UUID, isAdmin bool, isSuperAdmin bool) error {
	tag, err := r.db.Exec(ctx, "UPDATE users SET is_admin = $1, is_super_admin = $2, updated_at = NOW() WHERE id = $3", isAdmin, isSuperAdmin, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *userRepo) SearchByUsername(ctx context.Context, username string, limit int, offset int) ([]*model.FullUser, error) {
	maximumLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		"SELECT "+fullUserColumns+`
		FROM users u
		WHERE $1 = '' OR u.username ILIKE '%' || $1 || '%'
		ORDER BY u.created_at DESC
		LIMIT $2
		OFFSET $3
		`,
		username,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*model.FullUser{}
	for rows.Next() {
		user, err := scanFullUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// DeleteByID removes the account; edges, reactions and comments cascade and
// the counters of every account and post that lost one are recomputed.
func (r *userRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	neighbours, err := findNeighbours(ctx, tx, id)
	if err != nil {
		return err
	}

	// The account and its neighbours are locked in one ordered statement,
	// the same order mutateEdge uses.
	locked, err := lockUsers(ctx, tx, append([]uuid.UUID{id}, neighbours...)...)
	if err != nil {
		return err
	}
	if !containsID(locked, id) {
		return pgx.ErrNoRows
	}

	// Edges committed before the lock was granted are visible now.
	neighbours, err = findNeighbours(ctx, tx, id)
	if err != nil {
		return err
	}
	var unlocked []uuid.UUID
	for _, n := range neighbours {
		if !containsID(locked, n) {
			unlocked = append(unlocked, n)
		}
	}
	if len(unlocked) > 0 {
		if _, err := lockUsers(ctx, tx, unlocked...); err != nil {
			return err
		}
	}

	postRows, err := tx.Query(ctx, "SELECT r.post_id FROM post_reactions r JOIN posts p ON p.id = r.post_id WHERE r.user_id = $1 AND p.user_id <> $1", id)
	if err != nil {
		return err
	}
	posts, err := collectIDs(postRows)
	if err != nil {
		return err
	}
	if err := lockPosts(ctx, tx, posts); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM users WHERE id = $1", id); err != nil {
		return err
	}

	if err := recountUsers(ctx, tx, neighbours); err != nil {
		return err
	}
	if err := recountPosts(ctx, tx, posts); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func findNeighbours(ctx context.Context, tx pgx.Tx, id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := tx.Query(ctx, `
	SELECT f.user_id FROM followers f WHERE f.follower_id = $1
	UNION
	SELECT f.follower_id FROM followers f WHERE f.user_id = $1
	`, id)
	if err != nil {
		return nil, err
	}

	return collectIDs(rows)
}

func (r *userRepo) Follow(ctx context.Context, follower model.Follower) (bool, error) {
	return r.mutateEdge(ctx, follower, "INSERT INTO followers(user_id, follower_id) VALUES($1, $2) ON CONFLICT DO NOTHING")
}

func (r *userRepo) Unfollow(ctx context.Context, follower model.Follower) (bool, error) {
	return r.mutateEdge(ctx, follower, "DELETE FROM followers WHERE user_id = $1 AND follower_id = $2")
}

// mutateEdge locks both accounts before touching the edge so that concurrent
// follows of the same account are counted one after another.
func (r *userRepo) mutateEdge(ctx context.Context, follower model.Follower, stmt string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	ids := []uuid.UUID{follower.UserID, follower.FollowerID}
	locked, err := lockUsers(ctx, tx, ids...)
	if err != nil {
		return false, err
	}
	if len(locked) != len(ids) {
		return false, pgx.ErrNoRows
	}

	tag, err := tx.Exec(ctx, stmt, follower.UserID, follower.FollowerID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := recountUsers(ctx, tx, ids); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	return true, nil
}

func (r *userRepo) FindUserFollowers(ctx context.Context, id uuid.UUID, limit int, offset int) ([]*model.FullFollower, error) {
	return r.findEdges(ctx, `
	SELECT u.id, u.username, u.profile_pic_url, u.bio
	FROM followers f
	JOIN users u ON f.follower_id = u.id
	WHERE f.user_id = $1
	ORDER BY f.created_at DESC
	LIMIT $2
	OFFSET $3
	`, id, limit, offset)
}

func (r *userRepo) FindUserFollowing(ctx context.Context, id uuid.UUID, limit int, offset int) ([]*model.FullFollower, error) {
	return r.findEdges(ctx, `
	SELECT u.id, u.username, u.profile_pic_url, u.bio
	FROM followers f
	JOIN users u ON f.user_id = u.id
	WHERE f.follower_id = $1
	ORDER BY f.created_at DESC
	LIMIT $2
	OFFSET $3
	`, id, limit, offset)
}

func (r *userRepo) findEdges(ctx context.Context, query string, id uuid.UUID, limit int, offset int) ([]*model.FullFollower, error) {
	maximumLimit(&limit)

	rows, err := r.db.Query(ctx, query, id, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	followers := []*model.FullFollower{}
	for rows.Next() {
		var f model.FullFollower
		if err := rows.Scan(
			&f.ID,
			&f.Username,
			&f.ProfilePicURL,
			&f.Bio,
		); err != nil {
			return nil, err
		}

		followers = append(followers, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return followers, nil
}

func (r *userRepo) SetPasswordResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	tag, err := r.db.Exec(ctx, "UPDATE users SET password_reset_token_hash = $1, password_reset_expires_at = $2 WHERE id = $3", tokenHash, expiresAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *userRepo) ClearPasswordResetToken(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET password_reset_token_hash = NULL, password_reset_expires_at = NULL WHERE id = $1", id)
	return err
}

func (r *userRepo) ResetPasswordByToken(ctx context.Context, tokenHash string, passwordHash string, now time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	if err := r.db.QueryRow(ctx, `
	UPDATE users SET
	password_hash = $1,
	password_reset_token_hash = NULL,
	password_reset_expires_at = NULL,
	password_changed_at = $3,
	updated_at = $3
	WHERE password_reset_token_hash = $2 AND password_reset_expires_at > $3
	RETURNING id
	`, passwordHash, tokenHash, now).Scan(&id); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
	UPDATE users SET
	password_hash = $1,
	password_reset_token_hash = NULL,
	password_reset_expires_at = NULL,
	password_changed_at = $2,
	updated_at = $2
	WHERE id = $3
	`, passwordHash, changedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
