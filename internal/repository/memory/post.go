package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nab23-dev/prompt-sci/internal/model"
	"github.com/nab23-dev/prompt-sci/internal/repository"
)

type postRepo struct {
	mu    sync.RWMutex
	now   func() time.Time
	posts map[string]model.Post
}

func newPostRepo(now func() time.Time) *postRepo {
	return &postRepo{
		now:   now,
		posts: make(map[string]model.Post),
	}
}

func clonePost(p model.Post) *model.Post {
	reactions := make(map[string]string, len(p.Reactions))
	for uid, kind := range p.Reactions {
		reactions[uid] = kind
	}
	p.Reactions = reactions
	return &p
}

// sorted returns clones of the posts matching keep in feed order.
// Must be called with mu held.
func (r *postRepo) sorted(keep func(model.Post) bool) []*model.Post {
	var posts []*model.Post
	for _, p := range r.posts {
		if keep(p) {
			posts = append(posts, clonePost(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[j].After(posts[i].PageKey())
	})
	return posts
}

func (r *postRepo) Create(_ context.Context, post model.Post) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = uuid.NewString()
	post.Timestamp = r.now().UTC()
	stored := clonePost(post)
	r.posts[post.ID] = *stored
	return clonePost(*stored), nil
}

func (r *postRepo) FindByID(_ context.Context, id string) (*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePost(post), nil
}

func (r *postRepo) ListApproved(_ context.Context, after *model.PageKey, limit int) ([]*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := r.sorted(func(p model.Post) bool {
		return p.Approved && (after == nil || p.After(*after))
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *postRepo) ListByUID(_ context.Context, uid string) ([]*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(func(p model.Post) bool { return p.UID == uid }), nil
}

func (r *postRepo) SetReaction(_ context.Context, postID string, uid string, kind string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[postID]
	if !ok {
		return repository.ErrNotFound
	}
	if post.Reactions == nil {
		post.Reactions = map[string]string{}
	}
	post.Reactions[uid] = kind
	r.posts[postID] = post
	return nil
}

func (r *postRepo) SetApproved(_ context.Context, postID string, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[postID]
	if !ok {
		return repository.ErrNotFound
	}
	post.Approved = approved
	r.posts[postID] = post
	return nil
}

func (r *postRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *postRepo) DeleteByUID(_ context.Context, uid string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, post := range r.posts {
		if post.UID == uid {
			delete(r.posts, id)
			deleted++
		}
	}
	return deleted, nil
}
