package service

import (
	"context"
	"fmt"
	"log/slog"

	"showcase/internal/domain/models"
	"showcase/internal/domain/repositories"
	"showcase/internal/domain/services"
)

type projectProjector struct {
	users  repositories.UserRepository
	logger *slog.Logger
}

// NewProjectProjector creates a projector that resolves owners and comment
// authors through users in one batch per call.
func NewProjectProjector(users repositories.UserRepository, logger *slog.Logger) services.ProjectProjector {
	return &projectProjector{users: users, logger: logger}
}

func (p *projectProjector) Project(ctx context.Context, project *models.Project) (*models.ProjectView, error) {
	views, err := p.Projects(ctx, []models.Project{*project})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (p *projectProjector) Projects(ctx context.Context, projects []models.Project) ([]models.ProjectView, error) {
	views := make([]models.ProjectView, 0, len(projects))
	if len(projects) == 0 {
		return views, nil
	}

	summaries, err := p.users.GetSummaries(ctx, referencedUsers(projects))
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}

	resolve := func(id string) models.UserSummary {
		if s, ok := summaries[id]; ok {
			return s
		}
		// Users removed from the identity store still render by id
		p.logger.Debug("user summary missing", "user_id", id)
		return models.UserSummary{ID: id}
	}

	for i := range projects {
		views = append(views, toView(&projects[i], resolve))
	}
	return views, nil
}

func toView(p *models.Project, resolve func(string) models.UserSummary) models.ProjectView {
	comments := make([]models.CommentView, len(p.Comments))
	for i, c := range p.Comments {
		comments[i] = models.CommentView{
			ID:        c.ID,
			Content:   c.Content,
			Author:    resolve(c.AuthorID),
			CreatedAt: c.CreatedAt,
		}
	}

	likes := make([]models.Like, len(p.Likes))
	copy(likes, p.Likes)

	return models.ProjectView{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Technologies:     nonNil(p.Technologies),
		Tags:             nonNil(p.Tags),
		GithubURL:        p.GithubURL,
		LiveURL:          p.LiveURL,
		ImageURL:         p.ImageURL,
		Status:           p.Status,
		Difficulty:       p.Difficulty,
		IsPublic:         p.IsPublic,
		Featured:         p.Featured,
		Owner:            resolve(p.OwnerID),
		Comments:         comments,
		Likes:            likes,
		Views:            p.Views,
		LikeCount:        p.LikeCount(),
		CommentCount:     p.CommentCount(),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// referencedUsers collects owner and comment author ids without duplicates.
func referencedUsers(projects []models.Project) []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, p := range projects {
		add(p.OwnerID)
		for _, c := range p.Comments {
			add(c.AuthorID)
		}
	}
	return ids
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
