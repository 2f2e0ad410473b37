package feed

import (
	"strings"

	"github.com/samber/lo"

	"github.com/nab23-dev/prompt-sci/internal/model"
)

// Filter keeps the posts whose caption, prompt or resolved author name
// contains term, ignoring case. It never mutates posts.
func Filter(posts []*model.FeedPost, term string) []*model.FeedPost {
	if term == "" {
		return append([]*model.FeedPost(nil), posts...)
	}

	needle := strings.ToLower(term)
	return lo.Filter(posts, func(p *model.FeedPost, _ int) bool {
		return strings.Contains(strings.ToLower(p.Caption), needle) ||
			strings.Contains(strings.ToLower(p.Prompt), needle) ||
			strings.Contains(strings.ToLower(p.Name), needle)
	})
}
