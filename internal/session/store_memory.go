package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a simple in-memory store useful for tests and early
// development. It ignores TTLs; lifetime is the process lifetime.
//
// NOTE: This is not intended for production; use RedisStore.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	checkIns map[string]time.Time
	caches   map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		checkIns: make(map[string]time.Time),
		caches:   make(map[string]map[string]string),
	}
}

func (s *MemoryStore) Put(ctx context.Context, sid string, sess Session) error {
	_ = ctx
	if sid == "" {
		return ErrInvalidSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = sess
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, sid string) (Session, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	return sess, ok, nil
}

func (s *MemoryStore) Delete(ctx context.Context, sid string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	delete(s.checkIns, sid)
	delete(s.caches, sid)
	return nil
}

func (s *MemoryStore) SetCheckIn(ctx context.Context, sid string, at time.Time) error {
	_ = ctx
	if sid == "" {
		return ErrInvalidSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkIns[sid] = at
	return nil
}

func (s *MemoryStore) CheckIn(ctx context.Context, sid string) (time.Time, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.checkIns[sid]
	return at, ok, nil
}

func (s *MemoryStore) ClearCheckIn(ctx context.Context, sid string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.checkIns, sid)
	return nil
}

func (s *MemoryStore) SetCache(ctx context.Context, sid, key, value string) error {
	_ = ctx
	if sid == "" || key == "" {
		return ErrInvalidSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.caches[sid] == nil {
		s.caches[sid] = make(map[string]string)
	}
	s.caches[sid][key] = value
	return nil
}

func (s *MemoryStore) Cache(ctx context.Context, sid, key string) (string, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.caches[sid][key]
	return v, ok, nil
}

var _ Store = (*MemoryStore)(nil)
