package reference

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryMunicipalityStore struct {
	mu     sync.RWMutex
	nextID int
	rows   map[int]Municipality
	states map[int]bool
}

// NewMemoryMunicipalityStore builds an in-memory store seeded with the given
// rows. Every seeded state id is considered valid, alongside ids 1-32.
func NewMemoryMunicipalityStore(rows ...Municipality) MunicipalityStore {
	s := &memoryMunicipalityStore{nextID: 1, rows: make(map[int]Municipality), states: make(map[int]bool)}
	for i := 1; i <= 32; i++ {
		s.states[i] = true
	}
	for _, m := range rows {
		m.ID = s.nextID
		s.nextID++
		s.rows[m.ID] = m
		s.states[m.StateID] = true
	}
	return s
}

func (s *memoryMunicipalityStore) ListByState(_ context.Context, stateID int) ([]Municipality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]Municipality, 0)
	for _, m := range s.rows {
		if m.StateID == stateID {
			matched = append(matched, Municipality{Number: m.Number, Name: m.Name})
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Number < matched[j].Number })
	return matched, nil
}

func (s *memoryMunicipalityStore) List(_ context.Context, params ListParams) ([]Municipality, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}

	matched := make([]Municipality, 0, len(s.rows))
	for _, m := range s.rows {
		if params.Query != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(params.Query)) {
			continue
		}
		matched = append(matched, m)
	}
	sort.Slice(matched, func(i, j int) bool {
		if strings.EqualFold(params.Sort, "desc") {
			return matched[i].Name > matched[j].Name
		}
		return matched[i].Name < matched[j].Name
	})

	total := len(matched)
	start := (params.Page - 1) * params.Limit
	if start >= total {
		return []Municipality{}, total, nil
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *memoryMunicipalityStore) Get(_ context.Context, id int) (Municipality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.rows[id]
	if !ok {
		return Municipality{}, ErrMunicipalityNotFound
	}
	return m, nil
}

func (s *memoryMunicipalityStore) Create(_ context.Context, m Municipality) (Municipality, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.states[m.StateID] {
		return Municipality{}, ErrUnknownState
	}
	if s.conflicts(m, 0) {
		return Municipality{}, ErrMunicipalityTaken
	}
	m.ID = s.nextID
	s.nextID++
	s.rows[m.ID] = m
	return m, nil
}

func (s *memoryMunicipalityStore) Update(_ context.Context, m Municipality) (Municipality, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[m.ID]; !ok {
		return Municipality{}, ErrMunicipalityNotFound
	}
	if !s.states[m.StateID] {
		return Municipality{}, ErrUnknownState
	}
	if s.conflicts(m, m.ID) {
		return Municipality{}, ErrMunicipalityTaken
	}
	s.rows[m.ID] = m
	return m, nil
}

func (s *memoryMunicipalityStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return ErrMunicipalityNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *memoryMunicipalityStore) conflicts(m Municipality, excludeID int) bool {
	for id, existing := range s.rows {
		if id == excludeID || existing.StateID != m.StateID {
			continue
		}
		if existing.Number == m.Number || strings.EqualFold(existing.Name, m.Name) {
			return true
		}
	}
	return false
}
