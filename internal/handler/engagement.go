package handler

import (
	"log/slog"
	"net/http"

	"showcase/internal/domain/services"
	"showcase/internal/httputil"
)

// EngagementHandler handles comment and like HTTP requests
type EngagementHandler struct {
	engagement services.EngagementService
	projector  services.ProjectProjector
	logger     *slog.Logger
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(engagement services.EngagementService, projector services.ProjectProjector, logger *slog.Logger) *EngagementHandler {
	return &EngagementHandler{
		engagement: engagement,
		projector:  projector,
		logger:     logger,
	}
}

type addCommentBody struct {
	Content string `json:"content"`
}

// AddComment appends a comment
// POST /api/projects/{id}/comments
func (h *EngagementHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var body addCommentBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	project, err := h.engagement.AddComment(r.Context(), r.PathValue("id"), httputil.GetUserID(r), body.Content)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	view, err := h.projector.Project(r.Context(), project)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, "Comment added successfully", map[string]interface{}{
		"project": view,
	})
}

// RemoveComment deletes a comment
// DELETE /api/projects/{id}/comments/{commentId}
func (h *EngagementHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	project, err := h.engagement.RemoveComment(r.Context(), r.PathValue("id"), r.PathValue("commentId"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	view, err := h.projector.Project(r.Context(), project)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "Comment deleted successfully", map[string]interface{}{
		"project": view,
	})
}

// ToggleLike likes or unlikes a project
// POST /api/projects/{id}/like
func (h *EngagementHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	result, err := h.engagement.ToggleLike(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	view, err := h.projector.Project(r.Context(), result.Project)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	message := "Project unliked"
	if result.Liked {
		message = "Project liked"
	}

	httputil.RespondSuccess(w, http.StatusOK, message, map[string]interface{}{
		"project":   view,
		"likeCount": result.LikeCount,
		"liked":     result.Liked,
	})
}
