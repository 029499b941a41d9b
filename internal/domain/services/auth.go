package services

import "showcase/internal/domain/models"

// ProjectAuthorizer decides who may see or change a loaded project.
// Current implementation: ownership-based with public/private visibility.
//
// Design principle: services call the authorizer before any mutation, so
// every read and write path applies the same rules.
type ProjectAuthorizer interface {
	// CanView allows anyone on public projects and only the owner on private ones
	CanView(project *models.Project, userID string) error

	// CanModify allows only the owner to update or delete the project
	CanModify(project *models.Project, userID string) error

	// CanRemoveComment allows the comment author or the project owner
	CanRemoveComment(project *models.Project, comment *models.Comment, userID string) error
}
