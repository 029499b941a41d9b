package memory

import (
	"context"
	"fmt"
	"time"

	"showcase/internal/domain"
	"showcase/internal/domain/models"

	"github.com/google/uuid"
)

type engagementRepository struct {
	s *Store
}

func (r *engagementRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[comment.ProjectID]
	if !ok {
		return fmt.Errorf("project %s: %w", comment.ProjectID, domain.NewNotFound("project"))
	}

	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	p.Comments = append(p.Comments, *comment)
	p.UpdatedAt = comment.CreatedAt
	return nil
}

func (r *engagementRepository) DeleteComment(ctx context.Context, projectID, commentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[projectID]
	if !ok {
		return fmt.Errorf("project %s: %w", projectID, domain.NewNotFound("project"))
	}

	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("comment %s: %w", commentID, domain.NewNotFound("comment"))
}

func (r *engagementRepository) ToggleLike(ctx context.Context, projectID, userID string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[projectID]
	if !ok {
		return false, fmt.Errorf("project %s: %w", projectID, domain.NewNotFound("project"))
	}

	p.UpdatedAt = at
	for i := range p.Likes {
		if p.Likes[i].UserID == userID {
			p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
			return false, nil
		}
	}
	p.Likes = append(p.Likes, models.Like{UserID: userID, CreatedAt: at})
	return true, nil
}

func (r *engagementRepository) IncrementViews(ctx context.Context, projectID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[projectID]
	if !ok {
		return fmt.Errorf("project %s: %w", projectID, domain.NewNotFound("project"))
	}
	p.Views++
	return nil
}
