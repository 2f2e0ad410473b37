package model

import "time"

type Post struct {
	ID        string            `json:"id" bson:"_id"`
	UID       string            `json:"uid" bson:"uid"`
	Name      string            `json:"name" bson:"name"`
	Username  string            `json:"username" bson:"username"`
	Email     string            `json:"email" bson:"email"`
	ImageURL  string            `json:"imageURL,omitempty" bson:"imageURL"`
	Caption   string            `json:"caption,omitempty" bson:"caption"`
	Prompt    string            `json:"prompt" bson:"prompt"`
	Timestamp time.Time         `json:"timestamp" bson:"timestamp"`
	Approved  bool              `json:"approved" bson:"approved"`
	Reactions map[string]string `json:"reactions" bson:"reactions"`
}

// PageKey is the position of a post in the feed order (timestamp desc, id desc).
type PageKey struct {
	Timestamp time.Time `json:"ts"`
	ID        string    `json:"id"`
}

func (p *Post) PageKey() PageKey {
	return PageKey{Timestamp: p.Timestamp, ID: p.ID}
}

// After reports whether p comes after k in feed order.
func (p *Post) After(k PageKey) bool {
	if p.Timestamp.Equal(k.Timestamp) {
		return p.ID < k.ID
	}
	return p.Timestamp.Before(k.Timestamp)
}

type FeedPost struct {
	Post
	// Name is the author name resolved through the user-name cache, not the
	// name denormalised into the post document.
	Name  string `json:"name"`
	Color string `json:"color"`
}
