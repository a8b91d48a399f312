package matrix

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	nextID  int
	entries map[int]Entry
}

// NewMemoryRepository builds an in-memory matrix store for testing. It
// enforces the same pair uniqueness the Postgres index guarantees.
func NewMemoryRepository() Repository {
	return &memoryRepository{nextID: 1, entries: make(map[int]Entry)}
}

func (r *memoryRepository) List(_ context.Context) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *memoryRepository) ListByUserType(_ context.Context, userTypeID int) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0)
	for _, entry := range r.entries {
		if entry.UserTypeID == userTypeID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (r *memoryRepository) Get(_ context.Context, id int) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

func (r *memoryRepository) Create(_ context.Context, entry Entry) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.entries {
		if existing.UserTypeID == entry.UserTypeID && existing.ViewID == entry.ViewID {
			return Entry{}, ErrDuplicatePair
		}
	}
	entry.ID = r.nextID
	r.nextID++
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *memoryRepository) Update(_ context.Context, entry Entry) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[entry.ID]; !ok {
		return Entry{}, ErrNotFound
	}
	for id, existing := range r.entries {
		if id != entry.ID && existing.UserTypeID == entry.UserTypeID && existing.ViewID == entry.ViewID {
			return Entry{}, ErrDuplicatePair
		}
	}
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *memoryRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return ErrNotFound
	}
	delete(r.entries, id)
	return nil
}
