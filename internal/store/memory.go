package store

import (
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"blog_system/internal/domain"
)

// MemoryStore keeps users and posts in process memory. Transactions work on
// a copy of the data that replaces the live copy only on success, so a failed
// transaction leaves nothing behind. Id counters live outside the copy and are
// never rolled back, so ids are not reused.
type MemoryStore struct {
	mu         sync.RWMutex
	data       *memData
	nextUserID atomic.Uint64
	nextPostID atomic.Uint64
}

type memData struct {
	users map[uint]domain.User
	posts map[uint]domain.Post
}

func (d *memData) clone() *memData {
	return &memData{users: maps.Clone(d.users), posts: maps.Clone(d.posts)}
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: &memData{
		users: make(map[uint]domain.User),
		posts: make(map[uint]domain.Post),
	}}
}

// Read runs fn under a shared lock against the live data
func (s *MemoryStore) Read(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memTx{store: s, data: s.data})
}

// Transaction runs fn against a copy that replaces the live data only when fn succeeds
func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.data.clone()
	if err := fn(&memTx{store: s, data: work, writable: true}); err != nil {
		return err
	}
	s.data = work
	return nil
}

type memTx struct {
	store    *MemoryStore
	data     *memData
	writable bool
}

// ListUsers returns every user in id order
func (t *memTx) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(t.data.users))
	for _, id := range slices.Sorted(maps.Keys(t.data.users)) {
		users = append(users, t.data.users[id])
	}
	return users, nil
}

// GetUser returns the user with id or ErrNotFound
func (t *memTx) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	user, ok := t.data.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// FindUser returns the user whose field equals value or ErrNotFound
func (t *memTx) FindUser(ctx context.Context, field UserField, value string) (*domain.User, error) {
	for _, id := range slices.Sorted(maps.Keys(t.data.users)) {
		user := t.data.users[id]
		if userField(&user, field) == value {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// CreateUser inserts user and assigns its id and creation time
func (t *memTx) CreateUser(ctx context.Context, user *domain.User) error {
	if !t.writable {
		return ErrReadOnly
	}
	if err := t.checkUnique(user); err != nil {
		return err
	}
	user.ID = uint(t.store.nextUserID.Add(1))
	if user.CreatedAt.IsZero() {
		user.CreatedAt = domain.Now()
	}
	stored := *user
	stored.Posts = nil
	t.data.users[user.ID] = stored
	return nil
}

// UpdateUser writes username, email, password hash and admin flag
func (t *memTx) UpdateUser(ctx context.Context, user *domain.User) error {
	if !t.writable {
		return ErrReadOnly
	}
	current, ok := t.data.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if err := t.checkUnique(user); err != nil {
		return err
	}
	current.Username = user.Username
	current.Email = user.Email
	current.PasswordHash = user.PasswordHash
	current.IsAdmin = user.IsAdmin
	t.data.users[user.ID] = current
	return nil
}

// DeleteUser also removes the user's posts, mirroring ON DELETE CASCADE
func (t *memTx) DeleteUser(ctx context.Context, id uint) error {
	if !t.writable {
		return ErrReadOnly
	}
	if _, ok := t.data.users[id]; !ok {
		return ErrNotFound
	}
	if _, err := t.DeletePostsByUser(ctx, id); err != nil {
		return err
	}
	delete(t.data.users, id)
	return nil
}

// ListPosts returns every post in id order
func (t *memTx) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return t.posts(func(domain.Post) bool { return true }), nil
}

// ListPostsByUser returns the posts owned by userID in id order
func (t *memTx) ListPostsByUser(ctx context.Context, userID uint) ([]domain.Post, error) {
	return t.posts(func(p domain.Post) bool { return p.UserID == userID }), nil
}

// GetPost returns the post with id or ErrNotFound
func (t *memTx) GetPost(ctx context.Context, id uint) (*domain.Post, error) {
	post, ok := t.data.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &post, nil
}

// CreatePost inserts post and assigns its id and creation time
func (t *memTx) CreatePost(ctx context.Context, post *domain.Post) error {
	if !t.writable {
		return ErrReadOnly
	}
	if _, ok := t.data.users[post.UserID]; !ok {
		return ErrForeignKey
	}
	post.ID = uint(t.store.nextPostID.Add(1))
	if post.CreatedAt.IsZero() {
		post.CreatedAt = domain.Now()
	}
	t.data.posts[post.ID] = *post
	return nil
}

// UpdatePost writes title and content
func (t *memTx) UpdatePost(ctx context.Context, post *domain.Post) error {
	if !t.writable {
		return ErrReadOnly
	}
	current, ok := t.data.posts[post.ID]
	if !ok {
		return ErrNotFound
	}
	current.Title = post.Title
	current.Content = post.Content
	t.data.posts[post.ID] = current
	return nil
}

// DeletePost removes the post with id or returns ErrNotFound
func (t *memTx) DeletePost(ctx context.Context, id uint) error {
	if !t.writable {
		return ErrReadOnly
	}
	if _, ok := t.data.posts[id]; !ok {
		return ErrNotFound
	}
	delete(t.data.posts, id)
	return nil
}

// DeletePostsByUser removes every post owned by userID and reports how many
func (t *memTx) DeletePostsByUser(ctx context.Context, userID uint) (int64, error) {
	if !t.writable {
		return 0, ErrReadOnly
	}
	var n int64
	for id, post := range t.data.posts {
		if post.UserID == userID {
			delete(t.data.posts, id)
			n++
		}
	}
	return n, nil
}

// Ping checks that the backing storage answers
func (t *memTx) Ping(ctx context.Context) error { return ctx.Err() }

func (t *memTx) posts(keep func(domain.Post) bool) []domain.Post {
	posts := make([]domain.Post, 0, len(t.data.posts))
	for _, id := range slices.Sorted(maps.Keys(t.data.posts)) {
		if post := t.data.posts[id]; keep(post) {
			posts = append(posts, post)
		}
	}
	return posts
}

// checkUnique enforces the username and email unique indexes against every other user
func (t *memTx) checkUnique(user *domain.User) error {
	for _, field := range []UserField{FieldUsername, FieldEmail} {
		for id, other := range t.data.users {
			if id != user.ID && userField(&other, field) == userField(user, field) {
				return &DuplicateError{Field: field}
			}
		}
	}
	return nil
}

func userField(user *domain.User, field UserField) string {
	switch field {
	case FieldUsername:
		return user.Username
	case FieldEmail:
		return user.Email
	}
	return ""
}
