package services

import (
	"context"

	"showcase/internal/domain/models"
)

// CreateProjectRequest represents a request to create a project.
// Zero-valued Status/Difficulty and nil IsPublic/Tags take their defaults.
type CreateProjectRequest struct {
	OwnerID          string               `json:"-"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	ShortDescription *string              `json:"shortDescription"`
	Technologies     []string             `json:"technologies"`
	Tags             []string             `json:"tags"`
	GithubURL        *string              `json:"githubUrl"`
	LiveURL          *string              `json:"liveUrl"`
	ImageURL         *string              `json:"imageUrl"`
	Status           models.ProjectStatus `json:"status"`
	Difficulty       models.Difficulty    `json:"difficulty"`
	IsPublic         *bool                `json:"isPublic"`
}

// UpdateProjectRequest is a merge-patch: nil pointers and absent patches
// leave the stored value untouched.
// This is transport-agnostic - the handler maps JSON presence onto it.
type UpdateProjectRequest struct {
	Title            *string
	Description      *string
	ShortDescription models.StringPatch
	Technologies     *[]string
	Tags             *[]string
	GithubURL        models.StringPatch
	LiveURL          models.StringPatch
	ImageURL         models.StringPatch
	Status           *models.ProjectStatus
	Difficulty       *models.Difficulty
	IsPublic         *bool
}

// ProjectService defines business logic operations for projects
type ProjectService interface {
	// CreateProject creates a project owned by req.OwnerID
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)

	// GetProject loads a project visible to requesterID ("" for anonymous)
	// and counts a view unless the requester owns it
	GetProject(ctx context.Context, id, requesterID string) (*models.Project, error)

	// UpdateProject applies a merge-patch; owner only
	UpdateProject(ctx context.Context, id, requesterID string, req *UpdateProjectRequest) (*models.Project, error)

	// DeleteProject removes the project with its comments and likes; owner only
	DeleteProject(ctx context.Context, id, requesterID string) error

	// ListProjects lists public projects matching the query
	ListProjects(ctx context.Context, query *models.ProjectQuery) (*models.ProjectPage, error)

	// ListUserProjects lists ownerID's projects; private ones only when the
	// requester is the owner
	ListUserProjects(ctx context.Context, ownerID, requesterID string, page, limit int) (*models.ProjectPage, error)

	// ListFeatured returns the newest featured public projects
	ListFeatured(ctx context.Context, limit int) ([]models.Project, error)
}

// ViewRecorder counts project views.
type ViewRecorder interface {
	IncrementViews(ctx context.Context, projectID string) error
}
