package identity

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu     sync.RWMutex
	nextID int
	users  map[int]User
}

// NewMemoryRepository builds an in-memory user store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{nextID: 1, users: make(map[int]User)}
}

func (r *memoryRepository) Create(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.PersonalPhone == user.PersonalPhone {
			return User{}, ErrPhoneTaken
		}
		if existing.Email == user.Email {
			return User{}, ErrEmailTaken
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryRepository) FindByPhone(_ context.Context, phone string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.PersonalPhone == phone {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memoryRepository) FindByID(_ context.Context, id int) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *memoryRepository) List(_ context.Context, page, limit int) ([]User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	all := make([]User, 0, len(r.users))
	for _, user := range r.users {
		all = append(all, user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return []User{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *memoryRepository) Update(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok {
		return User{}, ErrNotFound
	}
	for id, other := range r.users {
		if id == user.ID {
			continue
		}
		if other.PersonalPhone == user.PersonalPhone {
			return User{}, ErrPhoneTaken
		}
		if other.Email == user.Email {
			return User{}, ErrEmailTaken
		}
	}
	user.CodeHash = existing.CodeHash
	user.RegisteredAt = existing.RegisteredAt
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}
