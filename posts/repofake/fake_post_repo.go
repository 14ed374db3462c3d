package fakepostrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/go-blog-server/posts"
	"github.com/inkpress/go-blog-server/users"
)

var _ posts.PostRepo = (*FakePostRepo)(nil)

// FakePostRepo is an in-memory PostRepo for tests. It resolves authors
// through the given user repo the way the MongoDB adapter does.
type FakePostRepo struct {
	posts map[string]*posts.Post
	users users.UserRepo
	lock  sync.RWMutex
	seq   int
}

func NewFakePostRepo(userRepo users.UserRepo) *FakePostRepo {
	return &FakePostRepo{
		posts: make(map[string]*posts.Post),
		users: userRepo,
	}
}

func (pr *FakePostRepo) Create(_ context.Context, post *posts.Post) (*posts.Post, error) {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	stored := *post
	stored.ID = uuid.New().String()
	pr.seq++
	// Monotonic timestamps so posts created within the same wall-clock tick
	// still sort deterministically.
	stored.CreatedAt = time.Now().Add(time.Duration(pr.seq) * time.Microsecond)
	pr.posts[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (pr *FakePostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	pr.lock.RLock()
	stored, ok := pr.posts[id]
	pr.lock.RUnlock()
	if !ok {
		return nil, posts.PostNotFoundErr
	}

	result := *stored
	pr.resolveAuthor(ctx, &result)
	return &result, nil
}

func (pr *FakePostRepo) ListRecent(ctx context.Context, limit int) ([]*posts.Post, error) {
	pr.lock.RLock()
	all := make([]*posts.Post, 0, len(pr.posts))
	for _, p := range pr.posts {
		copied := *p
		all = append(all, &copied)
	}
	pr.lock.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	for _, p := range all {
		pr.resolveAuthor(ctx, p)
	}
	return all, nil
}

func (pr *FakePostRepo) Update(ctx context.Context, post *posts.Post) (*posts.Post, error) {
	pr.lock.Lock()
	stored, ok := pr.posts[post.ID]
	if !ok {
		pr.lock.Unlock()
		return nil, posts.PostNotFoundErr
	}
	stored.Title = post.Title
	stored.Summary = post.Summary
	stored.Content = post.Content
	stored.Cover = post.Cover
	result := *stored
	pr.lock.Unlock()

	pr.resolveAuthor(ctx, &result)
	return &result, nil
}

func (pr *FakePostRepo) resolveAuthor(ctx context.Context, post *posts.Post) {
	if pr.users == nil {
		return
	}
	author, err := pr.users.GetByID(ctx, post.AuthorID)
	if err != nil {
		return
	}
	post.Author = &posts.Author{ID: author.ID, Username: author.Username}
}
