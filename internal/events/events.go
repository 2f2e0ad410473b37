// Package events describes post and account changes and fans them out to
// live feed subscribers and to the message broker.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/nab23-dev/prompt-sci/internal/model"
)

type Type string

const (
	PostCreated  Type = "post.created"
	PostDeleted  Type = "post.deleted"
	PostReacted  Type = "post.reacted"
	PostApproved Type = "post.approved"
	UserDeleted  Type = "user.deleted"
)

type Event struct {
	Type   Type   `json:"type"`
	PostID string `json:"postID,omitempty"`
	UID    string `json:"uid,omitempty"`
	// Kind is the reaction tag of a post.reacted event.
	Kind string `json:"kind,omitempty"`
	// Post is the post after the change. For post.deleted it is the post as
	// it was before removal.
	Post *model.Post `json:"post,omitempty"`
	At   time.Time   `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
