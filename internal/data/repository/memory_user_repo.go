package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"user-accounts/internal/data/entity"
	"user-accounts/pkg/apperror"
)

// MemoryUserRepository keeps users in a map and enforces the same unique
// fields as the users table. It backs tests and local runs without Postgres.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]entity.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return ErrDuplicateID
	}

	for _, existing := range r.users {
		switch {
		case existing.Username == user.Username:
			return apperror.Validation("username", uniqueConstraints["users_username_key"].message)
		case existing.Email == user.Email:
			return apperror.Validation("email", uniqueConstraints["users_email_key"].message)
		case existing.PhoneNumber == user.PhoneNumber:
			return apperror.Validation("phone_number", uniqueConstraints["users_phone_number_key"].message)
		case existing.LicenseNumber == user.LicenseNumber:
			return apperror.Validation("license_number", uniqueConstraints["users_license_number_key"].message)
		}
	}

	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) FindAll(_ context.Context) ([]*entity.User, error) {
	return r.filter(func(*entity.User) bool { return true }), nil
}

func (r *MemoryUserRepository) Search(_ context.Context, query string) ([]*entity.User, error) {
	q := strings.ToLower(query)
	return r.filter(func(u *entity.User) bool {
		return strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Username), q)
	}), nil
}

func (r *MemoryUserRepository) MarkVerified(_ context.Context, id string) error {
	return r.update(id, func(u *entity.User) { u.IsVerified = true })
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return r.update(id, func(u *entity.User) { u.PasswordHash = passwordHash })
}

func (r *MemoryUserRepository) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(u *entity.User) { u.LastLogin = &at })
}

func (r *MemoryUserRepository) update(id string, fn func(*entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id)
	}
	fn(&user)
	r.users[id] = user
	return nil
}

func (r *MemoryUserRepository) filter(keep func(*entity.User) bool) []*entity.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*entity.User, 0, len(r.users))
	for _, user := range r.users {
		u := user
		if keep(&u) {
			users = append(users, &u)
		}
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users
}
