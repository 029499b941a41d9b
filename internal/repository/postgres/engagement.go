package postgres

import (
	"context"
	"fmt"
	"time"

	"showcase/internal/domain"
	"showcase/internal/domain/models"
	"showcase/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresEngagementRepository implements the EngagementRepository interface.
// Each method is one statement, so concurrent callers never lose an update.
type PostgresEngagementRepository struct {
	pool *pgxpool.Pool
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(config *RepositoryConfig) repositories.EngagementRepository {
	return &PostgresEngagementRepository{pool: config.Pool}
}

// AddComment inserts a comment and bumps the project's updated_at
func (r *PostgresEngagementRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	query := `
		WITH touched AS (
			UPDATE projects SET updated_at = $4::timestamptz
			WHERE id = $1::uuid
			RETURNING id
		)
		INSERT INTO project_comments (project_id, author_id, content, created_at)
		SELECT id, $2::uuid, $3::text, $4::timestamptz FROM touched
		RETURNING id, created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		comment.ProjectID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return fmt.Errorf("project %s: %w", comment.ProjectID, domain.NewNotFound("project"))
		}
		return storeError("add comment", err)
	}

	return nil
}

// DeleteComment removes one comment and bumps the project's updated_at
func (r *PostgresEngagementRepository) DeleteComment(ctx context.Context, projectID, commentID string) error {
	query := `
		WITH removed AS (
			DELETE FROM project_comments
			WHERE id = $2::uuid AND project_id = $1::uuid
			RETURNING project_id
		)
		UPDATE projects SET updated_at = NOW()
		WHERE id IN (SELECT project_id FROM removed)
	`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, projectID, commentID)
	if err != nil {
		if IsPgInvalidTextError(err) {
			return fmt.Errorf("comment %s: %w", commentID, domain.NewNotFound("comment"))
		}
		return storeError("delete comment", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", commentID, domain.NewNotFound("comment"))
	}

	return nil
}

// ToggleLike removes the user's like if present, otherwise inserts one.
// The primary key on (project_id, user_id) keeps the like set duplicate-free
// when the same user toggles concurrently.
func (r *PostgresEngagementRepository) ToggleLike(ctx context.Context, projectID, userID string, at time.Time) (bool, error) {
	query := `
		WITH removed AS (
			DELETE FROM project_likes
			WHERE project_id = $1::uuid AND user_id = $2::uuid
			RETURNING 1
		), inserted AS (
			INSERT INTO project_likes (project_id, user_id, created_at)
			SELECT $1::uuid, $2::uuid, $3::timestamptz
			WHERE NOT EXISTS (SELECT 1 FROM removed)
			ON CONFLICT (project_id, user_id) DO NOTHING
			RETURNING 1
		), touched AS (
			UPDATE projects SET updated_at = $3::timestamptz
			WHERE id = $1::uuid
			RETURNING 1
		)
		SELECT EXISTS (SELECT 1 FROM inserted), EXISTS (SELECT 1 FROM touched)
	`

	var liked, found bool
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, projectID, userID, at).Scan(&liked, &found)
	if err != nil {
		if IsPgForeignKeyError(err) || IsPgInvalidTextError(err) {
			return false, fmt.Errorf("project %s: %w", projectID, domain.NewNotFound("project"))
		}
		return false, storeError("toggle like", err)
	}

	if !found {
		return false, fmt.Errorf("project %s: %w", projectID, domain.NewNotFound("project"))
	}

	return liked, nil
}

// IncrementViews adds one to the view counter in place
func (r *PostgresEngagementRepository) IncrementViews(ctx context.Context, projectID string) error {
	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, `UPDATE projects SET views = views + 1 WHERE id = $1`, projectID)
	if err != nil {
		if IsPgInvalidTextError(err) {
			return fmt.Errorf("project %s: %w", projectID, domain.NewNotFound("project"))
		}
		return storeError("increment views", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", projectID, domain.NewNotFound("project"))
	}

	return nil
}
