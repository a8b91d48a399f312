package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	phone   string
	expires time.Time
}

// MemoryManager keeps sessions in process memory. It backs development runs
// without Redis; expiry is checked lazily on read.
type MemoryManager struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

// NewMemoryManager builds an in-memory session manager with the given TTL.
func NewMemoryManager(ttl time.Duration) *MemoryManager {
	return &MemoryManager{ttl: ttl, entries: make(map[string]memoryEntry)}
}

// Create binds the session id to the phone number.
func (m *MemoryManager) Create(_ context.Context, id, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memoryEntry{phone: phone, expires: time.Now().Add(m.ttl)}
	return nil
}

// Read returns the bound phone number, or ErrNoSession once the TTL passed.
func (m *MemoryManager) Read(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return "", ErrNoSession
	}
	if time.Now().After(entry.expires) {
		delete(m.entries, id)
		return "", ErrNoSession
	}
	return entry.phone, nil
}

// Destroy removes the session. Destroying an absent session is not an error.
func (m *MemoryManager) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}
