package auth

import (
	"showcase/internal/domain"
	"showcase/internal/domain/models"
	"showcase/internal/domain/services"
)

// OwnerBasedAuthorizer implements ProjectAuthorizer using ownership checks.
// Public projects are readable by anyone; private projects exist only for
// their owner. Mutations of the project itself are owner-only.
type OwnerBasedAuthorizer struct{}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer() services.ProjectAuthorizer {
	return &OwnerBasedAuthorizer{}
}

// CanView checks project visibility for userID ("" for anonymous callers)
func (a *OwnerBasedAuthorizer) CanView(project *models.Project, userID string) error {
	if project.IsPublic || project.IsOwnedBy(userID) {
		return nil
	}
	return domain.NewForbidden("access denied: project is private")
}

// CanModify checks the caller owns the project
func (a *OwnerBasedAuthorizer) CanModify(project *models.Project, userID string) error {
	if project.IsOwnedBy(userID) {
		return nil
	}
	return domain.NewForbidden("access denied: you can only modify your own projects")
}

// CanRemoveComment allows the comment's author or the project's owner
func (a *OwnerBasedAuthorizer) CanRemoveComment(project *models.Project, comment *models.Comment, userID string) error {
	if userID != "" && (comment.AuthorID == userID || project.OwnerID == userID) {
		return nil
	}
	return domain.NewForbidden("not authorized to delete this comment")
}
