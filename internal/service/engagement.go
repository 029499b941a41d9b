package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"showcase/internal/domain"
	"showcase/internal/domain/models"
	"showcase/internal/domain/repositories"
	"showcase/internal/domain/services"
)

// engagementService implements the EngagementService interface
type engagementService struct {
	projectRepo    repositories.ProjectRepository
	engagementRepo repositories.EngagementRepository
	userRepo       repositories.UserRepository
	authorizer     services.ProjectAuthorizer
	txManager      repositories.TransactionManager
	logger         *slog.Logger
	now            func() time.Time
}

// NewEngagementService creates a new engagement service
func NewEngagementService(
	projectRepo repositories.ProjectRepository,
	engagementRepo repositories.EngagementRepository,
	userRepo repositories.UserRepository,
	authorizer services.ProjectAuthorizer,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.EngagementService {
	return &engagementService{
		projectRepo:    projectRepo,
		engagementRepo: engagementRepo,
		userRepo:       userRepo,
		authorizer:     authorizer,
		txManager:      txManager,
		logger:         logger,
		now:            time.Now,
	}
}

// IncrementViews adds one view to a project
func (s *engagementService) IncrementViews(ctx context.Context, projectID string) error {
	if err := requireID(projectID, "project"); err != nil {
		return err
	}
	return s.engagementRepo.IncrementViews(ctx, projectID)
}

// AddComment appends a comment to a project the author can see
func (s *engagementService) AddComment(ctx context.Context, projectID, authorID, content string) (*models.Project, error) {
	if err := requireID(projectID, "project"); err != nil {
		return nil, err
	}
	if err := requireActiveUser(ctx, s.userRepo, authorID); err != nil {
		return nil, err
	}

	content, err := normalizeComment(content)
	if err != nil {
		return nil, err
	}

	if err := s.requireVisible(ctx, projectID, authorID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ProjectID: projectID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.engagementRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		"project_id", projectID,
		"comment_id", comment.ID,
		"author_id", authorID,
	)

	return s.projectRepo.GetByID(ctx, projectID)
}

// RemoveComment deletes a comment if the requester wrote it or owns the project
func (s *engagementService) RemoveComment(ctx context.Context, projectID, commentID, requesterID string) (*models.Project, error) {
	if err := requireID(projectID, "project"); err != nil {
		return nil, err
	}
	if err := requireID(commentID, "comment"); err != nil {
		return nil, err
	}

	var updated *models.Project
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		project, err := s.projectRepo.GetByID(txCtx, projectID)
		if err != nil {
			return err
		}

		// A private project is hidden from former commenters too
		if err := s.authorizer.CanView(project, requesterID); err != nil {
			return err
		}

		comment := project.FindComment(commentID)
		if comment == nil {
			return fmt.Errorf("comment %q: %w", commentID, domain.NewNotFound("comment"))
		}

		if err := s.authorizer.CanRemoveComment(project, comment, requesterID); err != nil {
			return err
		}

		if err := s.engagementRepo.DeleteComment(txCtx, projectID, commentID); err != nil {
			return err
		}

		updated, err = s.projectRepo.GetByID(txCtx, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment removed",
		"project_id", projectID,
		"comment_id", commentID,
		"removed_by", requesterID,
	)

	return updated, nil
}

// ToggleLike flips the caller's like on a project they can see
func (s *engagementService) ToggleLike(ctx context.Context, projectID, userID string) (*services.LikeResult, error) {
	if err := requireID(projectID, "project"); err != nil {
		return nil, err
	}
	if err := requireActiveUser(ctx, s.userRepo, userID); err != nil {
		return nil, err
	}

	if err := s.requireVisible(ctx, projectID, userID); err != nil {
		return nil, err
	}

	liked, err := s.engagementRepo.ToggleLike(ctx, projectID, userID, s.now())
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("like toggled",
		"project_id", projectID,
		"user_id", userID,
		"liked", liked,
		"like_count", project.LikeCount(),
	)

	return &services.LikeResult{
		Project:   project,
		Liked:     project.LikedBy(userID),
		LikeCount: project.LikeCount(),
	}, nil
}

func (s *engagementService) requireVisible(ctx context.Context, projectID, userID string) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	return s.authorizer.CanView(project, userID)
}
