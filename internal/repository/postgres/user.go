package postgres

import (
	"context"
	"fmt"
	"strings"

	"showcase/internal/domain"
	"showcase/internal/domain/models"
	"showcase/internal/domain/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{pool: config.Pool}
}

// Create inserts a user. An empty ID is generated by the database.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, avatar, is_active, created_at, updated_at)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		user.ID,
		user.Name,
		strings.TrimSpace(user.Email),
		user.PasswordHash,
		user.Avatar,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if IsPgDuplicateError(err) {
			existingID := ""
			if existing, getErr := r.GetByEmail(ctx, user.Email); getErr == nil {
				existingID = existing.ID
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("user with email '%s' already exists", user.Email),
				ResourceType: "user",
				ResourceID:   existingID,
			}
		}
		return storeError("create user", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("user %s: %w", id, domain.NewNotFound("user"))
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail retrieves a user by email, ignoring case
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", strings.TrimSpace(email))
}

func (r *PostgresUserRepository) getOne(ctx context.Context, where string, arg string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, password_hash, avatar, is_active, created_at, updated_at
		FROM users
		WHERE %s
	`, where)

	var u models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Avatar,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", arg, domain.NewNotFound("user"))
		}
		return nil, storeError("get user", err)
	}

	return &u, nil
}

// GetSummaries resolves display summaries for ids in one query
func (r *PostgresUserRepository) GetSummaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	summaries := make(map[string]models.UserSummary, len(ids))

	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return summaries, nil
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, `
		SELECT id, name, avatar
		FROM users
		WHERE id = ANY($1::text[]::uuid[])
	`, valid)
	if err != nil {
		return nil, storeError("get user summaries", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Avatar); err != nil {
			return nil, storeError("scan user summary", err)
		}
		summaries[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate user summaries", err)
	}

	return summaries, nil
}
