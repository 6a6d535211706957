package memory

import (
	"context"
	"sync"

	"sitewatch/internal/domain"
	"sitewatch/internal/session"
)

// Store keeps the session record in process memory. Used by tests and
// by the CLI when no durable path is configured.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func New() *Store {
	return &Store{entries: make(map[string][]byte)}
}

func (s *Store) SaveUser(ctx context.Context, u *domain.User) error {
	b, err := session.EncodeUser(u)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[session.KeyUser] = b
	return nil
}

func (s *Store) LoadUser(ctx context.Context) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return session.DecodeUser(s.entries[session.KeyUser]), nil
}

func (s *Store) SetAuthenticated(ctx context.Context, v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v {
		s.entries[session.KeyAuthenticated] = []byte("true")
	} else {
		s.entries[session.KeyAuthenticated] = []byte("false")
	}
	return nil
}

func (s *Store) Authenticated(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.entries[session.KeyAuthenticated]) == "true", nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, session.KeyUser)
	delete(s.entries, session.KeyAuthenticated)
	return nil
}

// Corrupt overwrites the stored user with garbage. Test hook.
func (s *Store) Corrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[session.KeyUser] = []byte("{not json")
}
