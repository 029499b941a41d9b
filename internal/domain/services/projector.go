package services

import (
	"context"

	"showcase/internal/domain/models"
)

// ProjectProjector shapes stored projects into client-safe views.
type ProjectProjector interface {
	Project(ctx context.Context, project *models.Project) (*models.ProjectView, error)
	Projects(ctx context.Context, projects []models.Project) ([]models.ProjectView, error)
}
