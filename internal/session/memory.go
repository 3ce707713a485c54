package session

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/benboulanger/agent-platform/internal/pkg/errors"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
)

type memorySession struct {
	mu           sync.Mutex
	createdAt    time.Time
	lastActivity time.Time
	turns        []Turn
}

// MemoryStore keeps sessions in a process-local map. The map itself is
// guarded by a global lock held only for lookup/insert/delete; turn appends
// take the per-session lock, so unrelated sessions never contend.
type MemoryStore struct {
	log     *logger.Logger
	timeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*memorySession

	now func() time.Time
}

func NewMemoryStore(log *logger.Logger, timeout time.Duration) *MemoryStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &MemoryStore{
		log:      log.With("component", "MemorySessionStore"),
		timeout:  timeout,
		sessions: map[string]*memorySession{},
		now:      time.Now,
	}
}

func (s *MemoryStore) get(id string) *memorySession {
	s.mu.RLock()
	sess := s.sessions[id]
	s.mu.RUnlock()
	return sess
}

func (s *MemoryStore) getOrCreate(id string) *memorySession {
	if sess := s.get(id); sess != nil {
		return sess
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	now := s.now()
	sess := &memorySession{createdAt: now, lastActivity: now}
	s.sessions[id] = sess
	return sess
}

func (s *MemoryStore) History(ctx context.Context, id string) ([]Turn, error) {
	sess := s.get(id)
	if sess == nil {
		return nil, nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]Turn, len(sess.turns))
	copy(out, sess.turns)
	return out, nil
}

func (s *MemoryStore) AppendTurn(ctx context.Context, id string, turn Turn) error {
	sess := s.getOrCreate(id)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if turn.Timestamp.IsZero() {
		turn.Timestamp = s.now()
	}
	sess.turns = append(sess.turns, turn)
	sess.lastActivity = s.now()
	return nil
}

func (s *MemoryStore) Info(ctx context.Context, id string) (*Info, error) {
	sess := s.get(id)
	if sess == nil {
		return nil, pkgerrors.ErrNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return &Info{
		ID:           id,
		CreatedAt:    sess.createdAt,
		LastActivity: sess.lastActivity,
		TurnCount:    len(sess.turns),
	}, nil
}

func (s *MemoryStore) Reset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Sweep(ctx context.Context) int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := now.Sub(sess.lastActivity) > s.timeout
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug("expired sessions swept", "removed", removed)
	}
	return removed
}
