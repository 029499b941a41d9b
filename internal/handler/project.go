package handler

import (
	"log/slog"
	"net/http"

	"showcase/internal/domain/models"
	"showcase/internal/domain/services"
	"showcase/internal/httputil"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projects  services.ProjectService
	projector services.ProjectProjector
	logger    *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects services.ProjectService, projector services.ProjectProjector, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects:  projects,
		projector: projector,
		logger:    logger,
	}
}

// updateProjectBody is the JSON shape of a merge-patch update
type updateProjectBody struct {
	Title            *string                 `json:"title"`
	Description      *string                 `json:"description"`
	ShortDescription httputil.OptionalString `json:"shortDescription"`
	Technologies     *[]string               `json:"technologies"`
	Tags             *[]string               `json:"tags"`
	GithubURL        httputil.OptionalString `json:"githubUrl"`
	LiveURL          httputil.OptionalString `json:"liveUrl"`
	ImageURL         httputil.OptionalString `json:"imageUrl"`
	Status           *models.ProjectStatus   `json:"status"`
	Difficulty       *models.Difficulty      `json:"difficulty"`
	IsPublic         *bool                   `json:"isPublic"`
}

func (b *updateProjectBody) toRequest() *services.UpdateProjectRequest {
	return &services.UpdateProjectRequest{
		Title:            b.Title,
		Description:      b.Description,
		ShortDescription: b.ShortDescription.Patch(),
		Technologies:     b.Technologies,
		Tags:             b.Tags,
		GithubURL:        b.GithubURL.Patch(),
		LiveURL:          b.LiveURL.Patch(),
		ImageURL:         b.ImageURL.Patch(),
		Status:           b.Status,
		Difficulty:       b.Difficulty,
		IsPublic:         b.IsPublic,
	}
}

// ListProjects lists public projects
// GET /api/projects?search=&technologies=&status=&difficulty=&page=&limit=
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	page, err := httputil.QueryInt(r, "page", models.DefaultPage)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	limit, err := httputil.QueryInt(r, "limit", models.DefaultPageLimit)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	query := r.URL.Query()
	result, err := h.projects.ListProjects(r.Context(), &models.ProjectQuery{
		Search:       query.Get("search"),
		Technologies: httputil.QueryList(r, "technologies"),
		Status:       models.ProjectStatus(query.Get("status")),
		Difficulty:   models.Difficulty(query.Get("difficulty")),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.respondPage(w, r, result)
}

// ListFeatured lists the newest featured projects
// GET /api/projects/featured?limit=
func (h *ProjectHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.QueryInt(r, "limit", models.DefaultFeaturedLimit)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	projects, err := h.projects.ListFeatured(r.Context(), limit)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	views, err := h.projector.Projects(r.Context(), projects)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"projects": views,
	})
}

// ListUserProjects lists one user's projects
// GET /api/projects/user/{userId}?page=&limit=
func (h *ProjectHandler) ListUserProjects(w http.ResponseWriter, r *http.Request) {
	page, err := httputil.QueryInt(r, "page", models.DefaultPage)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	limit, err := httputil.QueryInt(r, "limit", models.DefaultPageLimit)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	result, err := h.projects.ListUserProjects(r.Context(), r.PathValue("userId"), httputil.GetUserID(r), page, limit)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.respondPage(w, r, result)
}

// GetProject retrieves a project and counts the view
// GET /api/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.GetProject(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.respondProject(w, r, http.StatusOK, "", project)
}

// CreateProject creates a project owned by the caller
// POST /api/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req services.CreateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	req.OwnerID = httputil.GetUserID(r)

	project, err := h.projects.CreateProject(r.Context(), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.respondProject(w, r, http.StatusCreated, "Project created successfully", project)
}

// UpdateProject applies a merge-patch
// PUT /api/projects/{id}
// PATCH /api/projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var body updateProjectBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	project, err := h.projects.UpdateProject(r.Context(), r.PathValue("id"), httputil.GetUserID(r), body.toRequest())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.respondProject(w, r, http.StatusOK, "Project updated successfully", project)
}

// DeleteProject removes a project with its comments and likes
// DELETE /api/projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.DeleteProject(r.Context(), r.PathValue("id"), httputil.GetUserID(r)); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Project deleted successfully", nil)
}

func (h *ProjectHandler) respondPage(w http.ResponseWriter, r *http.Request, page *models.ProjectPage) {
	views, err := h.projector.Projects(r.Context(), page.Projects)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "", map[string]interface{}{
		"projects":   views,
		"pagination": page.Pagination,
	})
}

func (h *ProjectHandler) respondProject(w http.ResponseWriter, r *http.Request, status int, message string, project *models.Project) {
	view, err := h.projector.Project(r.Context(), project)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, status, message, map[string]interface{}{
		"project": view,
	})
}
