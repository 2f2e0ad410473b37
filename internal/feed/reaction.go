package feed

import (
	"context"
	"errors"

	"github.com/nab23-dev/prompt-sci/internal/model"
)

var (
	ErrAuthRequired    = errors.New("you must be signed in to react")
	ErrUnknownReaction = errors.New("unknown reaction")
)

// Reactor records reactions. Tags are written verbatim unless Strict is set.
type Reactor struct {
	store  ReactionStore
	Strict bool
}

func NewReactor(store ReactionStore, strict bool) *Reactor {
	return &Reactor{
		store:  store,
		Strict: strict,
	}
}

// React sets the reaction of uid on a post, replacing any earlier one.
func (r *Reactor) React(ctx context.Context, postID string, uid string, kind string) error {
	if uid == "" {
		return ErrAuthRequired
	}
	if r.Strict && !model.ReactionKind(kind).Known() {
		return ErrUnknownReaction
	}

	return r.store.SetReaction(ctx, postID, uid, kind)
}
