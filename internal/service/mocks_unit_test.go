//go:build unit

package service

import (
	"blogicum/internal/cache"
	"blogicum/internal/config"
	"blogicum/internal/data"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// newTestCache creates a new in-memory cache for testing.
func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(config.CacheConfig{FilePath: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func notFound(kind string, id interface{}) error {
	return fmt.Errorf("%s %v: %w", kind, id, data.ErrNotFound)
}

// mockPostRepository is a mock implementation of the PostRepository interface.
type mockPostRepository struct {
	posts         map[int64]*data.Post
	postsToReturn []*data.Post
	countToReturn int
	errToReturn   error

	lastFilter     data.PostFilter
	lastLimit      int
	lastOffset     int
	lastPostPassed *data.Post
	deletedIDs     []int64
	nextID         int64
}

var _ PostRepository = (*mockPostRepository)(nil)

func newMockPostRepository(posts ...*data.Post) *mockPostRepository {
	m := &mockPostRepository{posts: make(map[int64]*data.Post), nextID: 100}
	for _, p := range posts {
		m.posts[p.ID] = p
	}
	return m
}

func (m *mockPostRepository) CreatePost(ctx context.Context, post *data.Post) error {
	m.lastPostPassed = post
	if m.errToReturn != nil {
		return m.errToReturn
	}
	m.nextID++
	post.ID = m.nextID
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostRepository) GetPostByID(ctx context.Context, id int64) (*data.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, notFound("post", id)
	}
	cp := *p
	return &cp, nil
}

func (m *mockPostRepository) UpdatePost(ctx context.Context, post *data.Post) error {
	m.lastPostPassed = post
	if m.errToReturn != nil {
		return m.errToReturn
	}
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostRepository) DeletePost(ctx context.Context, id int64) error {
	m.deletedIDs = append(m.deletedIDs, id)
	delete(m.posts, id)
	return m.errToReturn
}

func (m *mockPostRepository) ListPosts(ctx context.Context, filter data.PostFilter, limit, offset int) ([]*data.Post, error) {
	m.lastFilter, m.lastLimit, m.lastOffset = filter, limit, offset
	return m.postsToReturn, m.errToReturn
}

func (m *mockPostRepository) CountPosts(ctx context.Context, filter data.PostFilter) (int, error) {
	m.lastFilter = filter
	return m.countToReturn, m.errToReturn
}

// mockCommentRepository is a mock implementation of the CommentRepository interface.
type mockCommentRepository struct {
	comments map[int64]*data.Comment
	nextID   int64
	deleted  []int64
}

var _ CommentRepository = (*mockCommentRepository)(nil)

func newMockCommentRepository(comments ...*data.Comment) *mockCommentRepository {
	m := &mockCommentRepository{comments: make(map[int64]*data.Comment)}
	for _, c := range comments {
		m.comments[c.ID] = c
		if c.ID > m.nextID {
			m.nextID = c.ID
		}
	}
	return m
}

func (m *mockCommentRepository) CreateComment(ctx context.Context, comment *data.Comment) error {
	m.nextID++
	comment.ID = m.nextID
	m.comments[comment.ID] = comment
	return nil
}

func (m *mockCommentRepository) GetCommentByID(ctx context.Context, id int64) (*data.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, notFound("comment", id)
	}
	cp := *c
	return &cp, nil
}

func (m *mockCommentRepository) ListCommentsByPost(ctx context.Context, postID int64) ([]*data.Comment, error) {
	var out []*data.Comment
	for id := int64(1); id <= m.nextID; id++ {
		if c, ok := m.comments[id]; ok && c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentRepository) UpdateComment(ctx context.Context, comment *data.Comment) error {
	m.comments[comment.ID] = comment
	return nil
}

func (m *mockCommentRepository) DeleteComment(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.comments, id)
	return nil
}

// mockCategoryRepository is a mock implementation of the CategoryRepository interface.
type mockCategoryRepository struct {
	categories     map[string]*data.Category
	getBySlugCalls int
	published      map[int64]bool
	deleted        []int64
}

var _ CategoryRepository = (*mockCategoryRepository)(nil)

func newMockCategoryRepository(categories ...*data.Category) *mockCategoryRepository {
	m := &mockCategoryRepository{categories: make(map[string]*data.Category), published: make(map[int64]bool)}
	for _, c := range categories {
		m.categories[c.Slug] = c
	}
	return m
}

func (m *mockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*data.Category, error) {
	m.getBySlugCalls++
	c, ok := m.categories[slug]
	if !ok {
		return nil, notFound("category", slug)
	}
	cp := *c
	return &cp, nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id int64) (*data.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, notFound("category", id)
}

func (m *mockCategoryRepository) GetAll(ctx context.Context) ([]*data.Category, error) {
	var out []*data.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCategoryRepository) ListPublished(ctx context.Context) ([]*data.Category, error) {
	var out []*data.Category
	for _, c := range m.categories {
		if c.IsPublished {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCategoryRepository) Save(ctx context.Context, category *data.Category) (int64, error) {
	if _, ok := m.categories[category.Slug]; ok {
		return 0, fmt.Errorf("category %q: %w", category.Slug, data.ErrDuplicate)
	}
	category.ID = int64(len(m.categories) + 1)
	m.categories[category.Slug] = category
	return category.ID, nil
}

func (m *mockCategoryRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	for _, c := range m.categories {
		if c.ID == id {
			c.IsPublished = published
			m.published[id] = published
			return nil
		}
	}
	return notFound("category", id)
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	for slug, c := range m.categories {
		if c.ID == id {
			delete(m.categories, slug)
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return notFound("category", id)
}

// mockLocationRepository is a mock implementation of the LocationRepository interface.
type mockLocationRepository struct {
	locations map[int64]*data.Location
}

var _ LocationRepository = (*mockLocationRepository)(nil)

func (m *mockLocationRepository) Save(ctx context.Context, location *data.Location) (int64, error) {
	if m.locations == nil {
		m.locations = make(map[int64]*data.Location)
	}
	location.ID = int64(len(m.locations) + 1)
	m.locations[location.ID] = location
	return location.ID, nil
}

func (m *mockLocationRepository) GetByID(ctx context.Context, id int64) (*data.Location, error) {
	if l, ok := m.locations[id]; ok {
		return l, nil
	}
	return nil, notFound("location", id)
}

func (m *mockLocationRepository) ListPublished(ctx context.Context) ([]*data.Location, error) {
	var out []*data.Location
	for _, l := range m.locations {
		if l.IsPublished {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLocationRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.locations[id]; !ok {
		return notFound("location", id)
	}
	delete(m.locations, id)
	return nil
}

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	users   map[int64]*data.User
	updated *data.User
}

var _ UserRepository = (*mockUserRepository)(nil)

func newMockUserRepository(users ...*data.User) *mockUserRepository {
	m := &mockUserRepository{users: make(map[int64]*data.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, user *data.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, user.Username) {
			return fmt.Errorf("username %q: %w", user.Username, data.ErrDuplicate)
		}
	}
	user.ID = int64(len(m.users) + 1)
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*data.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, notFound("user", id)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*data.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("user", username)
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, user *data.User) error {
	m.updated = user
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return notFound("user", id)
	}
	delete(m.users, id)
	return nil
}

// memoryStorage is an in-memory storage.Storage.
type memoryStorage struct {
	objects map[string][]byte
	deleted []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (m *memoryStorage) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	url := "/media/" + name
	m.objects[url] = data
	return url, nil
}

func (m *memoryStorage) Delete(ctx context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	delete(m.objects, url)
	return nil
}
