// Package seed loads users and projects from YAML fixtures. Seeding is
// idempotent: users are matched by email and projects by owner and title.
package seed

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"showcase/internal/domain"
	"showcase/internal/domain/models"
	"showcase/internal/domain/repositories"
	"showcase/internal/domain/services"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFiles embed.FS

// DefaultFixture names the embedded demo data set
const DefaultFixture = "fixtures/demo.yaml"

// Fixtures is the top-level YAML document
type Fixtures struct {
	Users    []UserFixture    `yaml:"users"`
	Projects []ProjectFixture `yaml:"projects"`
}

// UserFixture is keyed so projects can refer to users without knowing ids
type UserFixture struct {
	Key          string `yaml:"key"`
	Name         string `yaml:"name"`
	Email        string `yaml:"email"`
	Avatar       string `yaml:"avatar"`
	PasswordHash string `yaml:"password_hash"`
	Active       *bool  `yaml:"active"` // null = active
}

// ProjectFixture describes one project and its engagement
type ProjectFixture struct {
	Owner            string           `yaml:"owner"`
	Title            string           `yaml:"title"`
	Description      string           `yaml:"description"`
	ShortDescription *string          `yaml:"short_description"`
	Technologies     []string         `yaml:"technologies"`
	Tags             []string         `yaml:"tags"`
	GithubURL        *string          `yaml:"github_url"`
	LiveURL          *string          `yaml:"live_url"`
	ImageURL         *string          `yaml:"image_url"`
	Status           string           `yaml:"status"`
	Difficulty       string           `yaml:"difficulty"`
	Public           *bool            `yaml:"public"`
	Featured         bool             `yaml:"featured"`
	Comments         []CommentFixture `yaml:"comments"`
	Likes            []string         `yaml:"likes"` // user keys
}

// CommentFixture is a comment by a keyed user
type CommentFixture struct {
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
}

// Result counts what a run created
type Result struct {
	UsersCreated    int
	ProjectsCreated int
	ProjectsSkipped int
}

// Seeder writes fixtures through the same services the API uses, so seeded
// data satisfies every stored constraint.
type Seeder struct {
	users      repositories.UserRepository
	projects   repositories.ProjectRepository
	projectSvc services.ProjectService
	engagement services.EngagementService
	logger     *slog.Logger
}

// NewSeeder creates a seeder
func NewSeeder(
	users repositories.UserRepository,
	projects repositories.ProjectRepository,
	projectSvc services.ProjectService,
	engagement services.EngagementService,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		users:      users,
		projects:   projects,
		projectSvc: projectSvc,
		engagement: engagement,
		logger:     logger,
	}
}

// Load reads fixtures from path, or the embedded demo set when path is empty
func Load(path string) (*Fixtures, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = fixtureFiles.ReadFile(DefaultFixture)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	return Parse(data)
}

// Parse decodes and checks a fixture document
func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	keys := make(map[string]bool, len(f.Users))
	for _, u := range f.Users {
		if u.Key == "" || u.Email == "" {
			return nil, fmt.Errorf("user fixture %q: key and email are required", u.Name)
		}
		if keys[u.Key] {
			return nil, fmt.Errorf("user fixture %q: duplicate key", u.Key)
		}
		keys[u.Key] = true
	}

	for _, p := range f.Projects {
		refs := append([]string{p.Owner}, p.Likes...)
		for _, c := range p.Comments {
			refs = append(refs, c.Author)
		}
		for _, ref := range refs {
			if !keys[ref] {
				return nil, fmt.Errorf("project fixture %q: unknown user key %q", p.Title, ref)
			}
		}
	}

	return &f, nil
}

// Run applies the fixtures
func (s *Seeder) Run(ctx context.Context, f *Fixtures) (*Result, error) {
	result := &Result{}

	ids := make(map[string]string, len(f.Users))
	for _, uf := range f.Users {
		id, created, err := s.ensureUser(ctx, uf)
		if err != nil {
			return nil, err
		}
		ids[uf.Key] = id
		if created {
			result.UsersCreated++
		}
	}

	for _, pf := range f.Projects {
		created, err := s.ensureProject(ctx, pf, ids)
		if err != nil {
			return nil, fmt.Errorf("seed project %q: %w", pf.Title, err)
		}
		if created {
			result.ProjectsCreated++
		} else {
			result.ProjectsSkipped++
		}
	}

	s.logger.Info("seed complete",
		"users_created", result.UsersCreated,
		"projects_created", result.ProjectsCreated,
		"projects_skipped", result.ProjectsSkipped,
	)

	return result, nil
}

func (s *Seeder) ensureUser(ctx context.Context, uf UserFixture) (string, bool, error) {
	existing, err := s.users.GetByEmail(ctx, uf.Email)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", false, fmt.Errorf("look up user %q: %w", uf.Email, err)
	}

	now := time.Now()
	user := &models.User{
		Name:         uf.Name,
		Email:        uf.Email,
		Avatar:       uf.Avatar,
		PasswordHash: uf.PasswordHash,
		IsActive:     uf.Active == nil || *uf.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", false, fmt.Errorf("create user %q: %w", uf.Email, err)
	}

	s.logger.Debug("user seeded", "key", uf.Key, "id", user.ID)
	return user.ID, true, nil
}

func (s *Seeder) ensureProject(ctx context.Context, pf ProjectFixture, ids map[string]string) (bool, error) {
	ownerID := ids[pf.Owner]

	exists, err := s.ownerHasTitle(ctx, ownerID, pf.Title)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	project, err := s.projectSvc.CreateProject(ctx, &services.CreateProjectRequest{
		OwnerID:          ownerID,
		Title:            pf.Title,
		Description:      pf.Description,
		ShortDescription: pf.ShortDescription,
		Technologies:     pf.Technologies,
		Tags:             pf.Tags,
		GithubURL:        pf.GithubURL,
		LiveURL:          pf.LiveURL,
		ImageURL:         pf.ImageURL,
		Status:           models.ProjectStatus(pf.Status),
		Difficulty:       models.Difficulty(pf.Difficulty),
		IsPublic:         pf.Public,
	})
	if err != nil {
		return false, err
	}

	// Featured is curated, not user-settable, so it bypasses the service
	if pf.Featured {
		project.Featured = true
		if err := s.projects.Update(ctx, project); err != nil {
			return false, fmt.Errorf("mark featured: %w", err)
		}
	}

	for _, c := range pf.Comments {
		if _, err := s.engagement.AddComment(ctx, project.ID, ids[c.Author], c.Content); err != nil {
			return false, fmt.Errorf("add comment by %q: %w", c.Author, err)
		}
	}

	for _, key := range pf.Likes {
		if _, err := s.engagement.ToggleLike(ctx, project.ID, ids[key]); err != nil {
			return false, fmt.Errorf("like by %q: %w", key, err)
		}
	}

	return true, nil
}

func (s *Seeder) ownerHasTitle(ctx context.Context, ownerID, title string) (bool, error) {
	q := &models.ProjectQuery{
		OwnerID: ownerID,
		Page:    1,
		Limit:   models.MaxPageLimit,
	}
	q.ApplyDefaults()

	projects, _, err := s.projects.List(ctx, q)
	if err != nil {
		return false, fmt.Errorf("list owner projects: %w", err)
	}
	for _, p := range projects {
		if strings.EqualFold(p.Title, strings.TrimSpace(title)) {
			return true, nil
		}
	}
	return false, nil
}
