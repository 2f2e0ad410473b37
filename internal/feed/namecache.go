package feed

import (
	"context"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nab23-dev/prompt-sci/internal/model"
)

const maxConcurrentLookups = 8

// NameCache maps user ids to display names for the lifetime of a feed
// session. Entries are never invalidated.
type NameCache struct {
	logger *zap.Logger
	users  UserLookup

	mu    sync.RWMutex
	names map[string]string
}

func NewNameCache(logger *zap.Logger, users UserLookup) *NameCache {
	return &NameCache{
		logger: logger,
		users:  users,
		names:  make(map[string]string),
	}
}

func (c *NameCache) Name(uid string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name, ok := c.names[uid]
	return name, ok
}

func (c *NameCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.names)
}

func (c *NameCache) missing(uids []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return lo.Uniq(lo.Reject(uids, func(uid string, _ int) bool {
		_, ok := c.names[uid]
		return ok
	}))
}

// Resolve returns a display name for every uid. Uncached ids are looked up
// concurrently; a failed lookup caches the anonymous placeholder.
func (c *NameCache) Resolve(ctx context.Context, uids []string) map[string]string {
	missing := c.missing(uids)

	if len(missing) > 0 {
		resolved := make([]string, len(missing))

		var g errgroup.Group
		g.SetLimit(maxConcurrentLookups)
		for i, uid := range missing {
			g.Go(func() error {
				resolved[i] = c.lookup(ctx, uid)
				return nil
			})
		}
		_ = g.Wait()

		c.mu.Lock()
		for i, uid := range missing {
			if _, ok := c.names[uid]; !ok {
				c.names[uid] = resolved[i]
			}
		}
		c.mu.Unlock()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]string, len(uids))
	for _, uid := range uids {
		result[uid] = c.names[uid]
	}
	return result
}

func (c *NameCache) lookup(ctx context.Context, uid string) string {
	cacheLookups.Inc()

	user, err := c.users.FindByID(ctx, uid)
	if err != nil {
		c.logger.Sugar().Debugf("failed to resolve user(%s) name: %s", uid, err.Error())
		return model.AnonymousName
	}
	if user == nil {
		return model.AnonymousName
	}
	return user.DisplayName()
}
