package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore mirrors the postgres repositories in memory. Counters are always
// recomputed from the edge and reaction sets, as the SQL implementation does.
type memStore struct {
	mu        sync.Mutex
	seq       int
	users     map[uuid.UUID]*model.User
	order     map[uuid.UUID]int
	edges     map[model.Follower]struct{}
	posts     map[uuid.UUID]*model.Post
	reactions map[[2]uuid.UUID]model.Reaction
	comments  []*model.Comment
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[uuid.UUID]*model.User{},
		order:     map[uuid.UUID]int{},
		edges:     map[model.Follower]struct{}{},
		posts:     map[uuid.UUID]*model.Post{},
		reactions: map[[2]uuid.UUID]model.Reaction{},
	}
}

func (m *memStore) recountUser(id uuid.UUID) {
	u, ok := m.users[id]
	if !ok {
		return
	}
	u.FollowersCount, u.FollowingCount = 0, 0
	for e := range m.edges {
		if e.UserID == id {
			u.FollowersCount++
		}
		if e.FollowerID == id {
			u.FollowingCount++
		}
	}
}

func (m *memStore) recountPost(id uuid.UUID) {
	p, ok := m.posts[id]
	if !ok {
		return
	}
	p.LikeCount, p.DislikeCount = 0, 0
	for k, r := range m.reactions {
		if k[0] != id {
			continue
		}
		switch r {
		case model.ReactionLike:
			p.LikeCount++
		case model.ReactionDislike:
			p.DislikeCount++
		}
	}
}

func (m *memStore) fullUser(u *model.User) *model.FullUser {
	full := model.FullUser{User: *u, Followers: []uuid.UUID{}, Following: []uuid.UUID{}}
	for e := range m.edges {
		if e.UserID == u.ID {
			full.Followers = append(full.Followers, e.FollowerID)
		}
		if e.FollowerID == u.ID {
			full.Following = append(full.Following, e.UserID)
		}
	}
	return &full
}

type memUsers struct{ *memStore }

func (m memUsers) Create(ctx context.Context, user model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, &pgconn.PgError{Code: uniqueViolation, ConstraintName: emailUniqueConstraint}
		}
		if u.PhoneNumber == user.PhoneNumber {
			return nil, &pgconn.PgError{Code: uniqueViolation, ConstraintName: phoneUniqueConstraint}
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.seq++
	m.order[user.ID] = m.seq
	stored := user
	m.users[user.ID] = &stored
	return &user, nil
}

func (m memUsers) FindByID(ctx context.Context, id uuid.UUID) (*model.FullUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return m.fullUser(u), nil
}

func (m memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m memUsers) ExistsWithEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (m memUsers) ExistsWithPhoneNumber(ctx context.Context, phoneNumber string, except uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.PhoneNumber == phoneNumber && u.ID != except {
			return true, nil
		}
	}
	return false, nil
}

func (m memUsers) UpdateByID(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	for field, value := range updates {
		s, _ := value.(string)
		switch field {
		case "username":
			u.Username = s
		case "phone_number":
			u.PhoneNumber = s
		case "bio":
			u.Bio = &s
		case "city":
			u.City = &s
		case "origin":
			u.Origin = &s
		case "relationship":
			u.Relationship = model.Relationship(s)
		case "profile_pic_url":
			u.ProfilePicURL = &s
		case "cover_pic_url":
			u.CoverPicURL = &s
		}
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (m memUsers) SetRoles(ctx context.Context, id uuid.UUID, isAdmin bool, isSuperAdmin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.IsAdmin, u.IsSuperAdmin = isAdmin, isSuperAdmin
	return nil
}

func (m memUsers) SearchByUsername(ctx context.Context, username string, limit int, offset int) ([]*model.FullUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []*model.User{}
	for _, u := range m.users {
		if username == "" || strings.Contains(strings.ToLower(u.Username), strings.ToLower(username)) {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return m.order[matched[i].ID] > m.order[matched[j].ID] })

	users := []*model.FullUser{}
	for i := offset; i < len(matched) && len(users) < limit; i++ {
		users = append(users, m.fullUser(matched[i]))
	}
	return users, nil
}

func (m memUsers) DeleteByID(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, id)

	neighbours := []uuid.UUID{}
	for e := range m.edges {
		switch id {
		case e.UserID:
			neighbours = append(neighbours, e.FollowerID)
		case e.FollowerID:
			neighbours = append(neighbours, e.UserID)
		default:
			continue
		}
		delete(m.edges, e)
	}
	for postID, p := range m.posts {
		if p.UserID == id {
			delete(m.posts, postID)
		}
	}
	touched := []uuid.UUID{}
	for k := range m.reactions {
		if k[1] == id || m.posts[k[0]] == nil {
			touched = append(touched, k[0])
			delete(m.reactions, k)
		}
	}

	for _, n := range neighbours {
		m.recountUser(n)
	}
	for _, p := range touched {
		m.recountPost(p)
	}
	return nil
}

func (m memUsers) mutateEdge(edge model.Follower, insert bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.users[edge.UserID] == nil || m.users[edge.FollowerID] == nil {
		return false, pgx.ErrNoRows
	}

	_, exists := m.edges[edge]
	if exists == insert {
		return false, nil
	}
	if insert {
		m.edges[edge] = struct{}{}
	} else {
		delete(m.edges, edge)
	}

	m.recountUser(edge.UserID)
	m.recountUser(edge.FollowerID)
	return true, nil
}

func (m memUsers) Follow(ctx context.Context, follower model.Follower) (bool, error) {
	return m.mutateEdge(follower, true)
}

func (m memUsers) Unfollow(ctx context.Context, follower model.Follower) (bool, error) {
	return m.mutateEdge(follower, false)
}

func (m memUsers) findEdges(id uuid.UUID, followers bool, limit int, offset int) []*model.FullFollower {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := []uuid.UUID{}
	for e := range m.edges {
		if followers && e.UserID == id {
			ids = append(ids, e.FollowerID)
		}
		if !followers && e.FollowerID == id {
			ids = append(ids, e.UserID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return m.order[ids[i]] < m.order[ids[j]] })

	result := []*model.FullFollower{}
	for i := offset; i < len(ids) && len(result) < limit; i++ {
		u := m.users[ids[i]]
		result = append(result, &model.FullFollower{ID: u.ID, Username: u.Username, ProfilePicURL: u.ProfilePicURL, Bio: u.Bio})
	}
	return result
}

func (m memUsers) FindUserFollowers(ctx context.Context, id uuid.UUID, limit int, offset int) ([]*model.FullFollower, error) {
	return m.findEdges(id, true, limit, offset), nil
}

func (m memUsers) FindUserFollowing(ctx context.Context, id uuid.UUID, limit int, offset int) ([]*model.FullFollower, error) {
	return m.findEdges(id, false, limit, offset), nil
}

func (m memUsers) SetPasswordResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordResetTokenHash = &tokenHash
	u.PasswordResetExpiresAt = &expiresAt
	return nil
}

func (m memUsers) ClearPasswordResetToken(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		u.PasswordResetTokenHash = nil
		u.PasswordResetExpiresAt = nil
	}
	return nil
}

func (m memUsers) ResetPasswordByToken(ctx context.Context, tokenHash string, passwordHash string, now time.Time) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.PasswordResetTokenHash == nil || *u.PasswordResetTokenHash != tokenHash {
			continue
		}
		if !u.PasswordResetExpiresAt.After(now) {
			continue
		}
		u.PasswordHash = passwordHash
		u.PasswordResetTokenHash = nil
		u.PasswordResetExpiresAt = nil
		u.PasswordChangedAt = &now
		return u.ID, nil
	}
	return uuid.Nil, pgx.ErrNoRows
}

func (m memUsers) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = passwordHash
	u.PasswordResetTokenHash = nil
	u.PasswordResetExpiresAt = nil
	u.PasswordChangedAt = &changedAt
	return nil
}

type memPosts struct{ *memStore }

func (m memPosts) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post.ID = uuid.New()
	m.seq++
	post.CreatedAt = time.Unix(int64(m.seq), 0)
	post.UpdatedAt = post.CreatedAt
	stored := post
	m.posts[post.ID] = &stored
	return &post, nil
}

func (m memPosts) FindByID(ctx context.Context, id uuid.UUID) (*model.FullPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	full := model.FullPost{Post: *p, LikedBy: []uuid.UUID{}, DislikedBy: []uuid.UUID{}, Comments: []*model.Comment{}}
	for k, r := range m.reactions {
		if k[0] != id {
			continue
		}
		if r == model.ReactionLike {
			full.LikedBy = append(full.LikedBy, k[1])
		} else {
			full.DislikedBy = append(full.DislikedBy, k[1])
		}
	}
	for _, c := range m.comments {
		if c.PostID == id {
			full.Comments = append(full.Comments, c)
		}
	}
	return &full, nil
}

func (m memPosts) FindOwnerID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	return p.UserID, nil
}

func (m memPosts) UpdateBody(ctx context.Context, id uuid.UUID, body string) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	p.Body = body
	copied := *p
	return &copied, nil
}

func (m memPosts) DeleteByID(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.posts, id)
	for k := range m.reactions {
		if k[0] == id {
			delete(m.reactions, k)
		}
	}
	return nil
}

func (m memPosts) FindTimeline(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []*model.Post{}
	for _, p := range m.posts {
		_, follows := m.edges[model.Follower{UserID: p.UserID, FollowerID: userID}]
		if p.UserID == userID || follows {
			copied := *p
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	posts := []*model.Post{}
	for i := offset; i < len(matched) && len(posts) < limit; i++ {
		posts = append(posts, matched[i])
	}
	return posts, nil
}

func (m memPosts) ToggleLike(ctx context.Context, postID uuid.UUID, userID uuid.UUID) (*model.Engagement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[postID]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	key := [2]uuid.UUID{postID, userID}
	next := model.NextOnLike(m.reactions[key])
	m.reactions[key] = next
	m.recountPost(postID)

	return &model.Engagement{PostID: postID, Reaction: next, LikeCount: p.LikeCount, DislikeCount: p.DislikeCount}, nil
}

func (m memPosts) AddComment(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[comment.PostID]; !ok {
		return nil, pgx.ErrNoRows
	}
	comment.ID = uuid.New()
	comment.CreatedAt = time.Now()
	stored := comment
	m.comments = append(m.comments, &stored)
	return &comment, nil
}

type published struct {
	queue string
	body  []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	err      error
	messages []published
}

func (p *fakePublisher) Publish(ctx context.Context, queue string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, published{queue: queue, body: body})
	return nil
}

func (p *fakePublisher) onQueue(queue string) []published {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result []published
	for _, m := range p.messages {
		if m.queue == queue {
			result = append(result, m)
		}
	}
	return result
}

type fakeUploader struct {
	keys []string
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	u.keys = append(u.keys, key)
	return "https://cdn.test/" + key, nil
}
