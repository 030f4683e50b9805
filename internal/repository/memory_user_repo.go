package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"user_service/internal/model"

	"github.com/samber/oops"
)

type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*model.User
	byEmail map[string]string // lower(email) -> id
	order   []string
}

// NewMemoryUserRepository creates a UserRepository kept in process memory.
// Used with STORE=memory and in tests.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.byEmail[key]; exists {
		return oops.Code("USER_DUPLICATE_EMAIL").With("email", user.Email).Wrap(ErrDuplicateEmail)
	}
	if _, exists := r.byID[user.ID]; exists {
		return oops.Code("USER_CREATE_FAILED").With("id", user.ID).Errorf("user id already exists")
	}

	r.byID[user.ID] = cloneUser(user)
	r.byEmail[key] = user.ID
	r.order = append(r.order, user.ID)
	return nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return cloneUser(r.byID[id]), nil
}

func (r *memoryUserRepository) FindByUUID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *memoryUserRepository) FindAll(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, *cloneUser(r.byID[id]))
	}
	return users, nil
}

func (r *memoryUserRepository) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return oops.Code("USER_NOT_FOUND").With("id", id).Wrap(ErrNotFound)
	}
	u.LastLogin = at
	u.Modified = at
	return nil
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Phones = append([]model.Phone{}, u.Phones...)
	return &c
}
