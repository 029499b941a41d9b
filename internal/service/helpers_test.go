package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"showcase/internal/domain/models"
	"showcase/internal/domain/services"
	"showcase/internal/repository/memory"
	serviceAuth "showcase/internal/service/auth"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *memory.Store
	projects   *projectService
	engagement *engagementService
	projector  services.ProjectProjector
	clock      time.Time
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	logger := discardLogger()
	authorizer := serviceAuth.NewOwnerBasedAuthorizer()

	f := &fixture{
		store: store,
		clock: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	f.engagement = NewEngagementService(store.Projects(), store.Engagement(), store.Users(), authorizer, store.TransactionManager(), logger).(*engagementService)
	f.projects = NewProjectService(store.Projects(), store.Users(), f.engagement, authorizer, store.TransactionManager(), "english", logger).(*projectService)
	f.projector = NewProjectProjector(store.Users(), logger)

	// Deterministic, strictly increasing timestamps
	tick := func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	f.projects.now = tick
	f.engagement.now = tick

	return f
}

func (f *fixture) user(t *testing.T, name string) string {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", IsActive: true}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u.ID
}

func (f *fixture) project(t *testing.T, ownerID, title string, mutate ...func(*services.CreateProjectRequest)) *models.Project {
	t.Helper()
	req := &services.CreateProjectRequest{
		OwnerID:      ownerID,
		Title:        title,
		Description:  "A project called " + title,
		Technologies: []string{"Go"},
	}
	for _, m := range mutate {
		m(req)
	}
	p, err := f.projects.CreateProject(context.Background(), req)
	require.NoError(t, err)
	return p
}

func private(req *services.CreateProjectRequest) {
	isPublic := false
	req.IsPublic = &isPublic
}

func strPtr(s string) *string { return &s }
