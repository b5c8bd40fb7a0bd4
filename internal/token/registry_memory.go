package token

import (
	"context"
	"sync"
	"time"
)

// MemoryRegistry is the single-process session registry: a map guarded by a
// mutex. Delete-under-lock gives rotation its single-winner guarantee.
type MemoryRegistry struct {
	mu       sync.Mutex
	sessions map[string]Session
}

// NewMemoryRegistry constructs an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sessions: make(map[string]Session)}
}

func (m *MemoryRegistry) Put(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *MemoryRegistry) Get(_ context.Context, tok string) (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[tok]
	return s, ok, nil
}

func (m *MemoryRegistry) Delete(_ context.Context, tok string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[tok]
	if ok {
		delete(m.sessions, tok)
	}
	return ok, nil
}

// PurgeExpired removes every session whose expiry precedes now.
func (m *MemoryRegistry) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for tok, s := range m.sessions {
		if s.ExpiresAt.Before(now) {
			delete(m.sessions, tok)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of live entries. Test helper.
func (m *MemoryRegistry) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
