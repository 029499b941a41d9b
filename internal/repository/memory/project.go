package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"showcase/internal/domain"
	"showcase/internal/domain/models"

	"github.com/google/uuid"
)

type projectRepository struct {
	s *Store
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if _, exists := r.s.projects[project.ID]; exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("project '%s' already exists", project.ID),
			ResourceType: "project",
			ResourceID:   project.ID,
		}
	}
	if project.Comments == nil {
		project.Comments = []models.Comment{}
	}
	if project.Likes == nil {
		project.Likes = []models.Like{}
	}
	if project.Tags == nil {
		project.Tags = []string{}
	}

	r.s.projects[project.ID] = project.Clone()
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, domain.NewNotFound("project"))
	}
	return snapshot(p), nil
}

// GetByIDForUpdate needs no extra locking here: every write that reads first
// runs inside ExecTx, which already holds the store's transaction lock.
func (r *projectRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Project, error) {
	return r.GetByID(ctx, id)
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.projects[project.ID]
	if !ok || stored.OwnerID != project.OwnerID {
		return fmt.Errorf("project %s: %w", project.ID, domain.NewNotFound("project"))
	}

	// Content fields only; engagement and views stay as stored
	updated := project.Clone()
	updated.Comments = stored.Comments
	updated.Likes = stored.Likes
	updated.Views = stored.Views
	updated.CreatedAt = stored.CreatedAt
	r.s.projects[project.ID] = updated
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.projects[id]
	if !ok || stored.OwnerID != ownerID {
		return fmt.Errorf("project %s: %w", id, domain.NewNotFound("project"))
	}
	delete(r.s.projects, id)
	return nil
}

func (r *projectRepository) List(ctx context.Context, q *models.ProjectQuery) ([]models.Project, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(q.Search))

	type match struct {
		project *models.Project
		score   int
	}
	var matches []match
	for _, p := range r.s.projects {
		if !matchesFilters(p, q) {
			continue
		}
		score := 0
		if len(terms) > 0 {
			var ok bool
			if score, ok = searchScore(p, terms); !ok {
				continue
			}
		}
		matches = append(matches, match{project: p, score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if !a.project.CreatedAt.Equal(b.project.CreatedAt) {
			return a.project.CreatedAt.After(b.project.CreatedAt)
		}
		return a.project.ID > b.project.ID
	})

	total := len(matches)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	projects := make([]models.Project, 0, end-start)
	for _, m := range matches[start:end] {
		projects = append(projects, *snapshot(m.project))
	}
	return projects, total, nil
}

func matchesFilters(p *models.Project, q *models.ProjectQuery) bool {
	if q.PublicOnly && !p.IsPublic {
		return false
	}
	if q.FeaturedOnly && !p.Featured {
		return false
	}
	if q.OwnerID != "" && p.OwnerID != q.OwnerID {
		return false
	}
	if q.Status != "" && p.Status != q.Status {
		return false
	}
	if q.Difficulty != "" && p.Difficulty != q.Difficulty {
		return false
	}
	if len(q.Technologies) > 0 && !usesAny(p.Technologies, q.Technologies) {
		return false
	}
	return true
}

func usesAny(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// searchScore requires every term to occur in the title, description or
// technologies. Title hits weigh more than the rest.
func searchScore(p *models.Project, terms []string) (int, bool) {
	title := strings.ToLower(p.Title)
	body := strings.ToLower(p.Description + " " + strings.Join(p.Technologies, " "))

	score := 0
	for _, term := range terms {
		inTitle := strings.Contains(title, term)
		inBody := strings.Contains(body, term)
		if !inTitle && !inBody {
			return 0, false
		}
		if inTitle {
			score += 2
		}
		if inBody {
			score++
		}
	}
	return score, true
}

func snapshot(p *models.Project) *models.Project {
	c := p.Clone()
	if c.Comments == nil {
		c.Comments = []models.Comment{}
	}
	if c.Likes == nil {
		c.Likes = []models.Like{}
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c
}
