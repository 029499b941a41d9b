package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"showcase/internal/domain"
	"showcase/internal/domain/models"
	"showcase/internal/domain/repositories"
	"showcase/internal/domain/services"

	"github.com/google/uuid"
)

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo    repositories.ProjectRepository
	userRepo       repositories.UserRepository
	views          services.ViewRecorder
	authorizer     services.ProjectAuthorizer
	txManager      repositories.TransactionManager
	searchLanguage string
	logger         *slog.Logger
	now            func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	views services.ViewRecorder,
	authorizer services.ProjectAuthorizer,
	txManager repositories.TransactionManager,
	searchLanguage string,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		views:          views,
		authorizer:     authorizer,
		txManager:      txManager,
		searchLanguage: searchLanguage,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateProject creates a new project with defaults applied
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	if err := requireActiveUser(ctx, s.userRepo, req.OwnerID); err != nil {
		return nil, err
	}

	now := s.now()
	project := &models.Project{
		OwnerID:          req.OwnerID,
		Title:            strings.TrimSpace(req.Title),
		Description:      strings.TrimSpace(req.Description),
		ShortDescription: normalizeOptional(req.ShortDescription),
		Technologies:     normalizeTechnologies(req.Technologies),
		Tags:             normalizeTags(req.Tags),
		GithubURL:        normalizeOptional(req.GithubURL),
		LiveURL:          normalizeOptional(req.LiveURL),
		ImageURL:         normalizeOptional(req.ImageURL),
		Status:           req.Status,
		Difficulty:       req.Difficulty,
		IsPublic:         true,
		Comments:         []models.Comment{},
		Likes:            []models.Like{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if project.Status == "" {
		project.Status = models.DefaultProjectStatus
	}
	if project.Difficulty == "" {
		project.Difficulty = models.DefaultProjectDifficulty
	}
	if req.IsPublic != nil {
		project.IsPublic = *req.IsPublic
	}

	if err := validateProject(project); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"title", project.Title,
		"owner_id", project.OwnerID,
		"is_public", project.IsPublic,
	)

	return project, nil
}

// GetProject retrieves a project and records a view for non-owners
func (s *projectService) GetProject(ctx context.Context, id, requesterID string) (*models.Project, error) {
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.CanView(project, requesterID); err != nil {
		return nil, err
	}

	if !project.IsOwnedBy(requesterID) {
		// Best-effort: a failed increment never fails the read
		if err := s.views.IncrementViews(ctx, project.ID); err != nil {
			s.logger.Warn("view increment failed",
				"project_id", project.ID,
				"error", err,
			)
		} else {
			project.Views++
		}
	}

	return project, nil
}

// UpdateProject applies a merge-patch to a project the requester owns
func (s *projectService) UpdateProject(ctx context.Context, id, requesterID string, req *services.UpdateProjectRequest) (*models.Project, error) {
	var updated *models.Project

	if err := requireID(id, "project"); err != nil {
		return nil, err
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		// Locked so a concurrent patch cannot write back a stale copy
		project, err := s.projectRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		if err := s.authorizer.CanModify(project, requesterID); err != nil {
			return err
		}

		applyProjectPatch(project, req)
		project.UpdatedAt = s.now()

		if err := validateProject(project); err != nil {
			return err
		}

		if err := s.projectRepo.Update(txCtx, project); err != nil {
			return err
		}

		updated = project
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project updated",
		"id", updated.ID,
		"owner_id", updated.OwnerID,
	)

	return updated, nil
}

// DeleteProject removes a project the requester owns
func (s *projectService) DeleteProject(ctx context.Context, id, requesterID string) error {
	// Load first so a missing project and a foreign project report differently
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizer.CanModify(project, requesterID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, project.ID, requesterID); err != nil {
		return err
	}

	s.logger.Info("project deleted",
		"id", project.ID,
		"owner_id", requesterID,
		"comments_removed", project.CommentCount(),
	)

	return nil
}

// ListProjects lists public projects matching the query
func (s *projectService) ListProjects(ctx context.Context, query *models.ProjectQuery) (*models.ProjectPage, error) {
	q := *query
	q.PublicOnly = true
	q.OwnerID = ""
	return s.list(ctx, &q)
}

// ListUserProjects lists one owner's projects. Private ones are included only
// when the owner is asking.
func (s *projectService) ListUserProjects(ctx context.Context, ownerID, requesterID string, page, limit int) (*models.ProjectPage, error) {
	if err := requireID(ownerID, "user"); err != nil {
		return nil, err
	}

	q := &models.ProjectQuery{
		OwnerID:    ownerID,
		PublicOnly: requesterID != ownerID,
		Page:       page,
		Limit:      limit,
	}
	return s.list(ctx, q)
}

// ListFeatured returns the newest featured public projects
func (s *projectService) ListFeatured(ctx context.Context, limit int) ([]models.Project, error) {
	if limit <= 0 {
		limit = models.DefaultFeaturedLimit
	}

	q := &models.ProjectQuery{
		FeaturedOnly: true,
		PublicOnly:   true,
		Page:         1,
		Limit:        limit,
	}
	page, err := s.list(ctx, q)
	if err != nil {
		return nil, err
	}
	return page.Projects, nil
}

func (s *projectService) list(ctx context.Context, q *models.ProjectQuery) (*models.ProjectPage, error) {
	if q.Language == "" {
		q.Language = s.searchLanguage
	}
	q.ApplyDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	projects, total, err := s.projectRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("projects listed",
		"search", q.Search,
		"technologies", q.Technologies,
		"owner_id", q.OwnerID,
		"page", q.Page,
		"limit", q.Limit,
		"total", total,
	)

	return &models.ProjectPage{
		Projects:   projects,
		Pagination: models.NewPagination(q.Page, q.Limit, total),
	}, nil
}

func (s *projectService) loadProject(ctx context.Context, id string) (*models.Project, error) {
	if err := requireID(id, "project"); err != nil {
		return nil, err
	}
	return s.projectRepo.GetByID(ctx, id)
}

// applyProjectPatch copies every field present in req onto project.
func applyProjectPatch(project *models.Project, req *services.UpdateProjectRequest) {
	if req.Title != nil {
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		project.Description = strings.TrimSpace(*req.Description)
	}
	if req.ShortDescription.Present {
		project.ShortDescription = normalizeOptional(req.ShortDescription.Value)
	}
	if req.Technologies != nil {
		project.Technologies = normalizeTechnologies(*req.Technologies)
	}
	if req.Tags != nil {
		project.Tags = normalizeTags(*req.Tags)
	}
	if req.GithubURL.Present {
		project.GithubURL = normalizeOptional(req.GithubURL.Value)
	}
	if req.LiveURL.Present {
		project.LiveURL = normalizeOptional(req.LiveURL.Value)
	}
	if req.ImageURL.Present {
		project.ImageURL = normalizeOptional(req.ImageURL.Value)
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Difficulty != nil {
		project.Difficulty = *req.Difficulty
	}
	if req.IsPublic != nil {
		project.IsPublic = *req.IsPublic
	}
}

// requireActiveUser resolves the caller through the identity store. A token
// for a user that no longer exists or was deactivated cannot write.
func requireActiveUser(ctx context.Context, users repositories.UserRepository, userID string) error {
	if userID == "" {
		return domain.NewUnauthorized("authentication required")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return domain.NewUnauthorized("invalid user")
	}

	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewUnauthorized("user no longer exists")
		}
		return fmt.Errorf("resolve user: %w", err)
	}
	if !user.IsActive {
		return domain.NewUnauthorized("account is deactivated")
	}
	return nil
}
