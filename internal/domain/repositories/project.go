package repositories

import (
	"context"
	"time"

	"showcase/internal/domain/models"
)

// ProjectRepository defines data access operations for the project aggregate
type ProjectRepository interface {
	// Create persists a new project and fills in its generated ID and timestamps
	Create(ctx context.Context, project *models.Project) error

	// GetByID loads the full aggregate (comments in insertion order, likes)
	GetByID(ctx context.Context, id string) (*models.Project, error)

	// GetByIDForUpdate loads the aggregate like GetByID and locks the project
	// row until the enclosing transaction ends. Outside ExecTx it behaves
	// like GetByID.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Project, error)

	// Update overwrites the content fields of a project owned by project.OwnerID
	Update(ctx context.Context, project *models.Project) error

	// Delete removes a project owned by ownerID together with its comments and likes
	Delete(ctx context.Context, id, ownerID string) error

	// List returns one page of projects matching the query plus the total match count
	List(ctx context.Context, query *models.ProjectQuery) ([]models.Project, int, error)
}

// EngagementRepository mutates the comment list, like set and view counter of
// a project. Every method is a single atomic store operation.
type EngagementRepository interface {
	// AddComment appends a comment and fills in its ID and CreatedAt
	AddComment(ctx context.Context, comment *models.Comment) error

	// DeleteComment removes one comment by id
	DeleteComment(ctx context.Context, projectID, commentID string) error

	// ToggleLike flips userID's membership in the like set and reports
	// whether the user likes the project afterwards
	ToggleLike(ctx context.Context, projectID, userID string, at time.Time) (bool, error)

	// IncrementViews adds one to the view counter without reading it first
	IncrementViews(ctx context.Context, projectID string) error
}
