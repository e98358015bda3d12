// Package session keeps the server-side record of who is logged in. A session is
// addressed by an opaque token carried in a signed cookie.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"hospital-management-server/internal/models"
)

// ErrNotFound is returned for unknown, destroyed or expired tokens.
var ErrNotFound = errors.New("session not found")

// User is the projection of an Account kept in a session.
type User struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Name  string      `json:"name"`
}

// FromAccount projects an account into a session user.
func FromAccount(u *models.User) User {
	return User{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name}
}

// Store maps session tokens to users.
type Store interface {
	Get(ctx context.Context, token string) (*User, error)
	Set(ctx context.Context, token string, user User) error
	Destroy(ctx context.Context, token string) error
}

type memoryEntry struct {
	user      User
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Sessions do not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore creates a store. A zero ttl keeps sessions until they are destroyed.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, token string) (*User, error) {
	s.mu.RLock()
	entry, ok := s.items[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.items, token)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	user := entry.user
	return &user, nil
}

func (s *MemoryStore) Set(_ context.Context, token string, user User) error {
	entry := memoryEntry{user: user}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.items[token] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.items, token)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
