package services

import (
	"context"

	"showcase/internal/domain/models"
)

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Project   *models.Project
	Liked     bool
	LikeCount int
}

// EngagementService funnels every comment, like and view mutation so the
// aggregate invariants are enforced in one place.
type EngagementService interface {
	ViewRecorder

	// AddComment appends a comment by authorID and returns the updated project
	AddComment(ctx context.Context, projectID, authorID, content string) (*models.Project, error)

	// RemoveComment deletes a comment; only its author or the project owner may
	RemoveComment(ctx context.Context, projectID, commentID, requesterID string) (*models.Project, error)

	// ToggleLike flips userID's like on the project
	ToggleLike(ctx context.Context, projectID, userID string) (*LikeResult, error)
}
