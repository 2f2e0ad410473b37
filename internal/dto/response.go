package dto

import (
	"time"

	"github.com/nab23-dev/prompt-sci/internal/model"
)

type BasicResponse struct {
	Ok        bool      `json:"ok"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBasicResponse(ok bool, details string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Details:   details,
		Timestamp: time.Now(),
	}
}

type AuthResponse struct {
	Ok          bool    `json:"ok"`
	AccessToken string  `json:"access_token"`
	User        GetUser `json:"user"`
}

type RefreshResponse struct {
	Ok          bool   `json:"ok"`
	AccessToken string `json:"access_token"`
}

// AuthStateResponse reports the signed-in user id, null when signed out.
type AuthStateResponse struct {
	UID *string `json:"uid"`
}

type FeedPageResponse struct {
	Ok         bool       `json:"ok"`
	Posts      []FeedPost `json:"posts"`
	NextCursor string     `json:"nextCursor,omitempty"`
	Exhausted  bool       `json:"exhausted"`
}

type FeedSearchResponse struct {
	Ok    bool       `json:"ok"`
	Term  string     `json:"term"`
	Posts []FeedPost `json:"posts"`
}

type PostsResponse struct {
	Ok    bool   `json:"ok"`
	Posts []Post `json:"posts"`
}

type PostResponse struct {
	Ok   bool `json:"ok"`
	Post Post `json:"post"`
}

// Post is a post with its reaction tally and the caller's own reaction.
type Post struct {
	model.Post
	ReactionCounts map[string]int `json:"reactionCounts"`
	MyReaction     string         `json:"myReaction,omitempty"`
}

func NewPost(post model.Post, viewerID string) Post {
	return Post{
		Post:           post,
		ReactionCounts: model.ReactionCounts(post.Reactions),
		MyReaction:     post.Reactions[viewerID],
	}
}

type FeedPost struct {
	Post
	Name  string `json:"name"`
	Color string `json:"color"`
}

func NewFeedPost(post model.FeedPost, viewerID string) FeedPost {
	return FeedPost{
		Post:  NewPost(post.Post, viewerID),
		Name:  post.Name,
		Color: post.Color,
	}
}

func NewFeedPosts(posts []*model.FeedPost, viewerID string) []FeedPost {
	result := make([]FeedPost, 0, len(posts))
	for _, p := range posts {
		result = append(result, NewFeedPost(*p, viewerID))
	}
	return result
}
