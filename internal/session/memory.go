package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"retail-console/internal/domain"
)

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

type memoryStore struct {
	mu  sync.Mutex
	m   map[string]memoryEntry
	ttl time.Duration
}

// NewMemory returns an in-process Store. Used when no Redis address is
// configured, and by tests. Sessions do not survive a restart.
func NewMemory(ttl time.Duration) Store {
	return &memoryStore{m: make(map[string]memoryEntry), ttl: ttl}
}

func (s *memoryStore) Create(_ context.Context, sess Session) (Session, error) {
	sess.ID = uuid.NewString()
	sess.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sess.ID] = memoryEntry{session: sess, expiresAt: time.Now().Add(s.ttl)}
	return sess, nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.m[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.m, id)
		return nil, domain.ErrNotFound
	}
	out := entry.session
	return &out, nil
}

func (s *memoryStore) SetCartID(_ context.Context, id string, cartID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.m[id]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.m, id)
		return domain.ErrNotFound
	}
	entry.session.CartID = cartID
	entry.expiresAt = time.Now().Add(s.ttl)
	s.m[id] = entry
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}
