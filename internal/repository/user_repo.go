package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"classpick/internal/model"
)

// UserRepository keeps accounts in memory. Email and username lookups are case-insensitive.
type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]model.Account
	byEmail    map[string]string
	byUsername map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       map[string]model.Account{},
		byEmail:    map[string]string{},
		byUsername: map[string]string{},
	}
}

func (r *UserRepository) FindByID(_ context.Context, id string) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return model.Account{}, fmt.Errorf("find user %q: %w", id, model.ErrUserNotFound)
	}
	return a, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalize(email)]
	if !ok {
		return model.Account{}, fmt.Errorf("find user by email: %w", model.ErrUserNotFound)
	}
	return r.byID[id], nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[normalize(username)]
	if !ok {
		return model.Account{}, fmt.Errorf("find user %q: %w", username, model.ErrUserNotFound)
	}
	return r.byID[id], nil
}

// Create stores a new account; email and username must both be unused.
func (r *UserRepository) Create(_ context.Context, a model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email, username := normalize(a.Email), normalize(a.Username)
	if _, exists := r.byEmail[email]; exists {
		return fmt.Errorf("create user: email taken: %w", model.ErrUserAlreadyExists)
	}
	if _, exists := r.byUsername[username]; exists {
		return fmt.Errorf("create user: username taken: %w", model.ErrUserAlreadyExists)
	}

	r.byID[a.ID] = a
	r.byEmail[email] = a.ID
	r.byUsername[username] = a.ID
	return nil
}

// Update applies fn to the stored account atomically and returns the result. fn may refuse the
// change by returning an error.
func (r *UserRepository) Update(_ context.Context, id string, fn func(*model.Account) error) (model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return model.Account{}, fmt.Errorf("update user %q: %w", id, model.ErrUserNotFound)
	}

	if err := fn(&a); err != nil {
		return model.Account{}, err
	}

	r.byID[id] = a
	return a, nil
}

// Candidates returns every account that applied, in no particular order.
func (r *UserRepository) Candidates(_ context.Context) []model.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Account
	for _, a := range r.byID {
		if a.Candidate {
			out = append(out, a)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
