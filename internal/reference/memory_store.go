package reference

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	nextID int
	items  map[int]string
}

// NewMemoryStore builds an in-memory reference store for testing.
func NewMemoryStore() Store {
	return &memoryStore{nextID: 1, items: make(map[int]string)}
}

func (s *memoryStore) List(_ context.Context, params ListParams) ([]Item, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}

	matched := make([]Item, 0, len(s.items))
	for id, label := range s.items {
		if params.Query != "" && !strings.Contains(strings.ToLower(label), strings.ToLower(params.Query)) {
			continue
		}
		matched = append(matched, Item{ID: id, Label: label})
	}
	sort.Slice(matched, func(i, j int) bool {
		if strings.EqualFold(params.Sort, "desc") {
			return matched[i].Label > matched[j].Label
		}
		return matched[i].Label < matched[j].Label
	})

	total := len(matched)
	start := (params.Page - 1) * params.Limit
	if start >= total {
		return []Item{}, total, nil
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *memoryStore) Get(_ context.Context, id int) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	label, ok := s.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return Item{ID: id, Label: label}, nil
}

func (s *memoryStore) Create(_ context.Context, label string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if strings.EqualFold(existing, label) {
			return Item{}, ErrDuplicate
		}
	}
	id := s.nextID
	s.nextID++
	s.items[id] = label
	return Item{ID: id, Label: label}, nil
}

func (s *memoryStore) Update(_ context.Context, id int, label string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return Item{}, ErrNotFound
	}
	for otherID, existing := range s.items {
		if otherID != id && strings.EqualFold(existing, label) {
			return Item{}, ErrDuplicate
		}
	}
	s.items[id] = label
	return Item{ID: id, Label: label}, nil
}

func (s *memoryStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}
