package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nab23-dev/prompt-sci/internal/model"
)

var (
	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptsci_auth_attempts_total",
		Help: "Identity operations by result",
	}, []string{"op", "result"})

	postsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptsci_posts_submitted_total",
		Help: "Submitted posts by initial approval state",
	}, []string{"approved"})

	reactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptsci_reactions_total",
		Help: "Recorded reactions by kind",
	}, []string{"kind"})

	userCacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptsci_user_cache_results_total",
		Help: "Read-through user cache hits and misses",
	}, []string{"result"})
)

// reactionLabel keeps the kind label bounded when arbitrary tags are allowed.
func reactionLabel(kind string) string {
	if model.ReactionKind(kind).Known() {
		return kind
	}
	return "other"
}
