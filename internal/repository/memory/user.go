package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"showcase/internal/domain"
	"showcase/internal/domain/models"

	"github.com/google/uuid"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.Email = strings.TrimSpace(user.Email)
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("user with email '%s' already exists", user.Email),
				ResourceType: "user",
				ResourceID:   existing.ID,
			}
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	u := *user
	r.s.users[u.ID] = &u
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.NewNotFound("user"))
	}
	c := *u
	return &c, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.TrimSpace(email)
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.NewNotFound("user"))
}

func (r *userRepository) GetSummaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	summaries := make(map[string]models.UserSummary, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			summaries[id] = u.Summary()
		}
	}
	return summaries, nil
}

// SetActive flips a user's active flag. The identity store owns this state;
// the memory store exposes it for fixtures and tests.
func (s *Store) SetActive(id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, domain.NewNotFound("user"))
	}
	u.IsActive = active
	u.UpdatedAt = time.Now()
	return nil
}
