package feed

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// Session is the feed state of one signed-in viewer.
type Session struct {
	*Paginator
	Names *NameCache
}

// Sessions keeps a bounded set of feed sessions keyed by user id. Idle
// sessions expire after the configured ttl.
//
// The LRU behind it starts a cleanup goroutine that lives for the rest of the
// process, so it is only built by the first Get. Processes that never serve a
// feed, such as admin commands, never start it.
type Sessions struct {
	logger      *zap.Logger
	source      PageSource
	users       UserLookup
	pageSize    int
	maxSessions int
	ttl         time.Duration

	mu  sync.Mutex
	lru *expirable.LRU[string, *Session]
}

func NewSessions(logger *zap.Logger, source PageSource, users UserLookup, pageSize int, maxSessions int, ttl time.Duration) *Sessions {
	return &Sessions{
		logger:      logger,
		source:      source,
		users:       users,
		pageSize:    pageSize,
		maxSessions: maxSessions,
		ttl:         ttl,
	}
}

// Started reports whether any session was ever created.
func (s *Sessions) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lru != nil
}

// Get returns the session of uid, creating an empty one when needed.
func (s *Sessions) Get(uid string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lru == nil {
		s.lru = expirable.NewLRU[string, *Session](s.maxSessions, func(string, *Session) {
			activeSessions.Dec()
		}, s.ttl)
	}

	if session, ok := s.lru.Get(uid); ok {
		return session
	}

	names := NewNameCache(s.logger, s.users)
	session := &Session{
		Paginator: NewPaginator(s.source, names, s.pageSize),
		Names:     names,
	}
	s.lru.Add(uid, session)
	activeSessions.Inc()
	return session
}

// Peek returns an existing session without refreshing its expiry.
func (s *Sessions) Peek(uid string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lru == nil {
		return nil, false
	}
	return s.lru.Peek(uid)
}

func (s *Sessions) Drop(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lru != nil {
		s.lru.Remove(uid)
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lru == nil {
		return 0
	}
	return s.lru.Len()
}

// Each calls fn for every live session.
func (s *Sessions) Each(fn func(*Session)) {
	s.mu.Lock()
	if s.lru == nil {
		s.mu.Unlock()
		return
	}
	sessions := s.lru.Values()
	s.mu.Unlock()

	for _, session := range sessions {
		fn(session)
	}
}
