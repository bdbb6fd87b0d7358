package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var ErrNotFound = errors.New("session not found")

// Store is the document-store contract: session CRUD by identifier. The
// pipeline never queries across sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
}

// MemStore keeps sessions in memory. Used in tests and single-run tooling.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemStore() *MemStore {
	return &MemStore{sessions: map[string]*Session{}}
}

func (m *MemStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return clone(s)
}

func (m *MemStore) Put(_ context.Context, s *Session) error {
	c, err := clone(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[s.ID] = c
	m.mu.Unlock()
	return nil
}

// clone round-trips through JSON so callers never share mutable state with
// the store.
func clone(s *Session) (*Session, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out Session
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
