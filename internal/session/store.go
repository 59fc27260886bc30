package session

import (
	"context"
	"sync"
)

// Store is the shared session registration arbiter: user id -> the single
// active session id. It must be visible across client instances (Redis or
// the API-backed store in real deployments; the memory store serves tests
// and single-process setups).
//
// Registration is last-writer-wins by design: Put overwrites without a
// compare-and-swap, and the heartbeat provides eventual conflict detection
// bounded by one interval.
type Store interface {
	// Get returns the registered session id for the user, or "" when none.
	Get(ctx context.Context, userID string) (string, error)
	// Put registers the session id as authoritative for the user,
	// overwriting any prior registration.
	Put(ctx context.Context, userID, sessionID string) error
	// Delete removes the registration only if it still points at the given
	// session id. Deleting a superseded registration is a no-op.
	Delete(ctx context.Context, userID, sessionID string) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[userID], nil
}

func (s *MemoryStore) Put(ctx context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sessionID
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[userID] == sessionID {
		delete(s.sessions, userID)
	}
	return nil
}
