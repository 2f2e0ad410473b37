package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/nab23-dev/prompt-sci/internal/model"
)

var (
	ErrLoadInFlight = errors.New("a feed page is already loading")
	ErrFeedReset    = errors.New("feed was reset while the page was loading")
)

type Page struct {
	Posts []*model.FeedPost `json:"posts"`
	// Next is empty once the feed is exhausted.
	Next      Cursor `json:"nextCursor,omitempty"`
	Exhausted bool   `json:"exhausted"`
}

// FetchPage reads the page following after and decorates it with resolved
// author names and colors. One extra record is requested so that the page
// holding the last post already reports the feed as exhausted.
func FetchPage(ctx context.Context, source PageSource, names *NameCache, after *model.PageKey, size int) (*Page, error) {
	start := time.Now()
	defer func() { pageLoadDuration.Observe(time.Since(start).Seconds()) }()

	posts, err := source.ListApproved(ctx, after, size+1)
	if err != nil {
		pagesLoaded.WithLabelValues("error").Inc()
		return nil, err
	}

	page := &Page{Exhausted: len(posts) <= size}
	if !page.Exhausted {
		posts = posts[:size]
	}

	resolved := names.Resolve(ctx, lo.Map(posts, func(p *model.Post, _ int) string { return p.UID }))

	page.Posts = lo.Map(posts, func(p *model.Post, _ int) *model.FeedPost {
		return &model.FeedPost{Post: *p, Name: resolved[p.UID], Color: randomColor()}
	})
	if !page.Exhausted && len(posts) > 0 {
		page.Next = NewCursor(posts[len(posts)-1].PageKey())
	}

	pagesLoaded.WithLabelValues("ok").Inc()
	return page, nil
}

// Paginator walks the feed one page at a time and keeps every loaded post.
// At most one load runs at a time.
type Paginator struct {
	source   PageSource
	names    *NameCache
	pageSize int

	mu         sync.Mutex
	loading    bool
	generation uint64
	cursor     *model.PageKey
	exhausted  bool
	posts      []*model.FeedPost
}

func NewPaginator(source PageSource, names *NameCache, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{
		source:   source,
		names:    names,
		pageSize: pageSize,
	}
}

// LoadPage fetches the next page and appends it to the loaded posts. Once the
// feed is exhausted it returns an empty page without touching the store. A
// failed load leaves the cursor and the exhausted flag as they were.
func (p *Paginator) LoadPage(ctx context.Context) (*Page, error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return nil, ErrLoadInFlight
	}
	if p.exhausted {
		p.mu.Unlock()
		return &Page{Posts: []*model.FeedPost{}, Exhausted: true}, nil
	}
	p.loading = true
	generation := p.generation
	after := p.cursor
	p.mu.Unlock()

	page, err := FetchPage(ctx, p.source, p.names, after, p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()

	if generation != p.generation {
		return nil, ErrFeedReset
	}
	p.loading = false
	if err != nil {
		return nil, err
	}

	p.posts = append(p.posts, page.Posts...)
	p.exhausted = page.Exhausted
	if n := len(page.Posts); n > 0 {
		key := page.Posts[n-1].PageKey()
		p.cursor = &key
	}
	return page, nil
}

// Reset forgets every loaded post so the next LoadPage starts from the
// newest post. A load running during Reset is discarded.
func (p *Paginator) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.generation++
	p.loading = false
	p.cursor = nil
	p.exhausted = false
	p.posts = nil
}

// Posts returns the loaded posts in feed order.
func (p *Paginator) Posts() []*model.FeedPost {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]*model.FeedPost(nil), p.posts...)
}

func (p *Paginator) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.exhausted
}

// Cursor returns the position after the last loaded post.
func (p *Paginator) Cursor() Cursor {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cursor == nil || p.exhausted {
		return ""
	}
	return NewCursor(*p.cursor)
}

// Update replaces a loaded post in place, keeping its resolved name and
// color. It reports whether the post was loaded.
func (p *Paginator) Update(post *model.Post) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, loaded := range p.posts {
		if loaded.ID == post.ID {
			p.posts[i] = &model.FeedPost{Post: *post, Name: loaded.Name, Color: loaded.Color}
			return true
		}
	}
	return false
}

// Remove drops a loaded post.
func (p *Paginator) Remove(postID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.posts = lo.Reject(p.posts, func(fp *model.FeedPost, _ int) bool { return fp.ID == postID })
}
