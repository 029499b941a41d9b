package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"showcase/internal/domain"
	"showcase/internal/domain/models"
	"showcase/internal/domain/repositories"
	"showcase/internal/domain/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject_AppliesDefaults(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "ada")

	p := f.project(t, owner, "  Engine  ", func(r *services.CreateProjectRequest) {
		r.Tags = []string{"Go", "go", " Web "}
		r.GithubURL = strPtr("   ")
	})

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Engine", p.Title)
	assert.Equal(t, owner, p.OwnerID)
	assert.Equal(t, models.StatusCompleted, p.Status)
	assert.Equal(t, models.DifficultyIntermediate, p.Difficulty)
	assert.True(t, p.IsPublic)
	assert.False(t, p.Featured)
	assert.Zero(t, p.Views)
	assert.Equal(t, []string{"go", "web"}, p.Tags)
	assert.Nil(t, p.GithubURL)
	assert.Empty(t, p.Comments)
	assert.Empty(t, p.Likes)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestCreateProject_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*services.CreateProjectRequest)
		wantKey string
	}{
		{
			name:    "missing title",
			mutate:  func(r *services.CreateProjectRequest) { r.Title = "   " },
			wantKey: "title",
		},
		{
			name:    "title too long",
			mutate:  func(r *services.CreateProjectRequest) { r.Title = strings.Repeat("a", 101) },
			wantKey: "title",
		},
		{
			name:    "no technologies",
			mutate:  func(r *services.CreateProjectRequest) { r.Technologies = nil },
			wantKey: "technologies",
		},
		{
			name:    "blank technology",
			mutate:  func(r *services.CreateProjectRequest) { r.Technologies = []string{"Go", " "} },
			wantKey: "technologies.1",
		},
		{
			name:    "bad github url",
			mutate:  func(r *services.CreateProjectRequest) { r.GithubURL = strPtr("https://gitlab.com/a/b") },
			wantKey: "githubUrl",
		},
		{
			name:    "bad image url",
			mutate:  func(r *services.CreateProjectRequest) { r.ImageURL = strPtr("https://example.com/pic.bmp") },
			wantKey: "imageUrl",
		},
		{
			name:    "unknown status",
			mutate:  func(r *services.CreateProjectRequest) { r.Status = "abandoned" },
			wantKey: "status",
		},
		{
			name:    "unknown difficulty",
			mutate:  func(r *services.CreateProjectRequest) { r.Difficulty = "expert" },
			wantKey: "difficulty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			owner := f.user(t, "ada")

			req := &services.CreateProjectRequest{
				OwnerID:      owner,
				Title:        "Valid",
				Description:  "Valid description",
				Technologies: []string{"Go"},
			}
			tt.mutate(req)

			_, err := f.projects.CreateProject(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))

			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			found := false
			for _, d := range vErr.Details {
				if strings.HasPrefix(d, tt.wantKey+":") {
					found = true
				}
			}
			assert.True(t, found, "details %v should name %s", vErr.Details, tt.wantKey)
		})
	}
}

func TestCreateProject_RejectsInactiveOrUnknownUser(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "ada")
	require.NoError(t, f.store.SetActive(owner, false))

	_, err := f.projects.CreateProject(context.Background(), &services.CreateProjectRequest{
		OwnerID: owner, Title: "T", Description: "D", Technologies: []string{"Go"},
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.EqualError(t, err, "account is deactivated")

	_, err = f.projects.CreateProject(context.Background(), &services.CreateProjectRequest{
		OwnerID: uuid.NewString(), Title: "T", Description: "D", Technologies: []string{"Go"},
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGetProject_ViewCounting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ada")
	visitor := f.user(t, "bob")
	p := f.project(t, owner, "Engine")

	got, err := f.projects.GetProject(ctx, p.ID, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Views, "anonymous view counts")

	got, err = f.projects.GetProject(ctx, p.ID, visitor)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Views)

	got, err = f.projects.GetProject(ctx, p.ID, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Views, "owner views are not counted")

	stored, err := f.store.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.Views)
	assert.Equal(t, p.UpdatedAt, stored.UpdatedAt, "views do not touch updatedAt")
}

func TestGetProject_ConcurrentViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ada")
	visitor := f.user(t, "bob")
	p := f.project(t, owner, "Engine")

	const readers = 40
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.projects.GetProject(ctx, p.ID, visitor)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.projects.GetProject(ctx, p.ID, owner)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := f.store.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, readers, stored.Views, "every visitor read counts once, owner reads never")
}

func TestGetProject_PrivateVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ada")
	other := f.user(t, "bob")
	p := f.project(t, owner, "Secret", private)

	_, err := f.projects.GetProject(ctx, p.ID, other)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.projects.GetProject(ctx, p.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.projects.GetProject(ctx, p.ID, owner)
	require.NoError(t, err)
	assert.Zero(t, got.Views)
}

func TestGetProject_MalformedAndMissingIDs(t *testing.T) {
	f := newFixture(t)

	_, err := f.projects.GetProject(context.Background(), "not-a-uuid", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.projects.GetProject(context.Background(), uuid.NewString(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProject_MergePatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ada")
	p := f.project(t, owner, "Engine", func(r *services.CreateProjectRequest) {
		r.GithubURL = strPtr("https://github.com/ada/engine")
		r.LiveURL = strPtr("https://engine.example.com")
		r.Tags = []string{"sim"}
	})

	status := models.StatusCompleted
	updated, err := f.projects.UpdateProject(ctx, p.ID, owner, &services.UpdateProjectRequest{
		Title:     strPtr("Engine v2"),
		Status:    &status,
		GithubURL: models.StringPatch{Present: true, Value: nil},
	})
	require.NoError(t, err)

	assert.Equal(t, "Engine v2", updated.Title)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Nil(t, updated.GithubURL, "explicit null clears")
	require.NotNil(t, updated.LiveURL, "absent fields are untouched")
	assert.Equal(t, "https://engine.example.com", *updated.LiveURL)
	assert.Equal(t, p.Description, updated.Description)
	assert.Equal(t, []string{"sim"}, updated.Tags)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))
}

func TestUpdateProject_Authorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ada")
	other := f.user(t, "bob")
	p := f.project(t, owner, "Engine")

	_, err := f.projects.UpdateProject(ctx, p.ID, other, &services.UpdateProjectRequest{Title: strPtr("Hijacked")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := f.store.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engine", stored.Title)
}

// lockRecordingRepo notes which project ids were read with a row lock.
type lockRecordingRepo struct {
	repositories.ProjectRepository

	mu     sync.Mutex
	locked []string
}

func (r *lockRecordingRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Project, error) {
	r.mu.Lock()
	r.locked = append(r.locked, id)
	r.mu.Unlock()
	return r.ProjectRepository.GetByIDForUpdate(ctx, id)
}

func TestUpdateProject_ReadsWithRowLock(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "ada")
	p := f.project(t, owner, "Engine")

	repo := &lockRecordingRepo{ProjectRepository: f.store.Projects()}
	f.projects.projectRepo = repo

	_, err := f.projects.UpdateProject(context.Background(), p.ID, owner, &services.UpdateProjectRequest{Title: strPtr("Engine v2")})
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, repo.locked)
}

func TestUpdateProject_ConcurrentPatchesKeepEveryField(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.projects.now = time.Now
	owner := f.user(t, "ada")

	const rounds = 25
	ids := make([]string, rounds)
	for i := range ids {
		ids[i] = f.project(t, owner, fmt.Sprintf("Engine %d", i)).ID
	}

	planning := models.StatusPlanning
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			_, err := f.projects.UpdateProject(ctx, id, owner, &services.UpdateProjectRequest{Title: strPtr("Renamed")})
			assert.NoError(t, err)
		}(id)
		go func(id string) {
			defer wg.Done()
			_, err := f.projects.UpdateProject(ctx, id, owner, &services.UpdateProjectRequest{Status: &planning})
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		stored, err := f.store.Projects().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", stored.Title)
		assert.Equal(t, models.StatusPlanning, stored.Status)
	}
}

func TestUpdateProject_InvalidPatchLeavesProjectUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ada")
	p := f.project(t, owner, "Engine")

	empty := []string{}
	_, err := f.projects.UpdateProject(ctx, p.ID, owner, &services.UpdateProjectRequest{
		Title:        strPtr("New"),
		Technologies: &empty,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := f.store.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engine", stored.Title)
}

func TestDeleteProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ada")
	other := f.user(t, "bob")
	p := f.project(t, owner, "Engine")

	_, err := f.engagement.AddComment(ctx, p.ID, other, "nice")
	require.NoError(t, err)

	assert.ErrorIs(t, f.projects.DeleteProject(ctx, p.ID, other), domain.ErrForbidden)
	require.NoError(t, f.projects.DeleteProject(ctx, p.ID, owner))

	_, err = f.projects.GetProject(ctx, p.ID, owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.projects.DeleteProject(ctx, p.ID, owner), domain.ErrNotFound)
}

func TestListProjects_Pagination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ada")
	for i := 0; i < 25; i++ {
		f.project(t, owner, fmt.Sprintf("Project %02d", i))
	}

	page, err := f.projects.ListProjects(ctx, &models.ProjectQuery{Page: 2, Limit: 12})
	require.NoError(t, err)

	assert.Len(t, page.Projects, 12)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 12, Total: 25, Pages: 3}, page.Pagination)
	// Newest first: page two starts with the 13th newest
	assert.Equal(t, "Project 12", page.Projects[0].Title)
}

func TestListProjects_FiltersAndVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ada")

	f.project(t, owner, "React Dashboard", func(r *services.CreateProjectRequest) {
		r.Technologies = []string{"React", "TypeScript"}
		r.Status = models.StatusPlanning
		r.Difficulty = models.DifficultyBeginner
	})
	f.project(t, owner, "Go Service", func(r *services.CreateProjectRequest) {
		r.Technologies = []string{"Go"}
		r.Status = models.StatusCompleted
	})
	f.project(t, owner, "Hidden React", func(r *services.CreateProjectRequest) {
		r.Technologies = []string{"React"}
		private(r)
	})

	tests := []struct {
		name   string
		query  models.ProjectQuery
		titles []string
	}{
		{"all public", models.ProjectQuery{}, []string{"Go Service", "React Dashboard"}},
		{"technology any-of", models.ProjectQuery{Technologies: []string{"React", "Rust"}}, []string{"React Dashboard"}},
		{"status", models.ProjectQuery{Status: models.StatusCompleted}, []string{"Go Service"}},
		{"difficulty", models.ProjectQuery{Difficulty: models.DifficultyBeginner}, []string{"React Dashboard"}},
		{"search", models.ProjectQuery{Search: "dashboard"}, []string{"React Dashboard"}},
		{"no match", models.ProjectQuery{Search: "kotlin"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			page, err := f.projects.ListProjects(ctx, &q)
			require.NoError(t, err)

			var titles []string
			for _, p := range page.Projects {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.titles, titles)
			assert.Equal(t, len(tt.titles), page.Pagination.Total)
		})
	}
}

func TestListProjects_InvalidQuery(t *testing.T) {
	f := newFixture(t)

	_, err := f.projects.ListProjects(context.Background(), &models.ProjectQuery{Limit: 101})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.projects.ListProjects(context.Background(), &models.ProjectQuery{Status: "bogus"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListUserProjects_PrivateOnlyForOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ada")
	other := f.user(t, "bob")
	f.project(t, owner, "Public")
	f.project(t, owner, "Private", private)
	f.project(t, other, "Not Mine")

	page, err := f.projects.ListUserProjects(ctx, owner, owner, 1, 12)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.Total)

	page, err = f.projects.ListUserProjects(ctx, owner, other, 1, 12)
	require.NoError(t, err)
	require.Len(t, page.Projects, 1)
	assert.Equal(t, "Public", page.Projects[0].Title)

	page, err = f.projects.ListUserProjects(ctx, owner, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Total)
	assert.Equal(t, models.DefaultPageLimit, page.Pagination.Limit)
}

func TestListFeatured(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ada")

	featured := f.project(t, owner, "Featured")
	featured.Featured = true
	require.NoError(t, f.store.Projects().Update(ctx, featured))

	hidden := f.project(t, owner, "Featured but private", private)
	hidden.Featured = true
	require.NoError(t, f.store.Projects().Update(ctx, hidden))

	f.project(t, owner, "Plain")

	projects, err := f.projects.ListFeatured(ctx, 0)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Featured", projects[0].Title)
}
