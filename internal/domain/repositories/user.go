package repositories

import (
	"context"

	"showcase/internal/domain/models"
)

// UserRepository is the identity store as seen by the project core
type UserRepository interface {
	// Create inserts a user; a duplicate email yields *domain.ConflictError
	Create(ctx context.Context, user *models.User) error

	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail matches case-insensitively
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetSummaries resolves display shapes for a batch of ids. Unknown ids
	// are absent from the result rather than an error.
	GetSummaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error)
}
