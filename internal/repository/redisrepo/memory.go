package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type memoryRepo struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

func newMemoryRepo(now func() time.Time) *memoryRepo {
	return &memoryRepo{
		now:     now,
		entries: make(map[string]memoryEntry),
	}
}

// formatValue mirrors how go-redis writes scalar arguments.
func formatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(v)
	}
}

func (r *memoryRepo) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := memoryEntry{value: formatValue(value)}
	if ttl > 0 {
		entry.expiresAt = r.now().Add(ttl)
	}
	r.entries[key] = entry
	return nil
}

func (r *memoryRepo) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Set(ctx, key, valueJSON, ttl)
}

// lookup must be called with mu held.
func (r *memoryRepo) lookup(key string) (memoryEntry, bool) {
	entry, ok := r.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !r.now().Before(entry.expiresAt) {
		delete(r.entries, key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (r *memoryRepo) Get(_ context.Context, key string) *redis.StringCmd {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.lookup(key)
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(entry.value, nil)
}

func (r *memoryRepo) Del(_ context.Context, keys ...string) *redis.IntCmd {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, key := range keys {
		if _, ok := r.lookup(key); ok {
			delete(r.entries, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

func (r *memoryRepo) DelPrefix(_ context.Context, prefix string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.entries {
		if strings.HasPrefix(key, prefix) {
			delete(r.entries, key)
		}
	}
	return nil
}
