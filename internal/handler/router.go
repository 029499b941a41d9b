package handler

import (
	"log/slog"
	"net/http"

	"showcase/internal/auth"
	"showcase/internal/domain/services"
	"showcase/internal/middleware"

	"github.com/rs/cors"
)

// RouterConfig holds everything the HTTP surface depends on
type RouterConfig struct {
	Projects    services.ProjectService
	Engagement  services.EngagementService
	Projector   services.ProjectProjector
	Verifier    auth.TokenVerifier
	Store       Pinger
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter registers every route and wraps the mux in the middleware chain.
// Order: CORS → RequestID → Recovery → per-route auth → handler
func NewRouter(cfg RouterConfig) http.Handler {
	projectHandler := NewProjectHandler(cfg.Projects, cfg.Projector, cfg.Logger)
	engagementHandler := NewEngagementHandler(cfg.Engagement, cfg.Projector, cfg.Logger)
	healthHandler := NewHealthHandler(cfg.Store, cfg.Logger)

	requireAuth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	optionalAuth := middleware.OptionalAuth(cfg.Verifier, cfg.Logger)

	authed := func(h http.HandlerFunc) http.Handler { return requireAuth(h) }
	optional := func(h http.HandlerFunc) http.Handler { return optionalAuth(h) }

	// Go 1.22+ enhanced patterns; literal segments win over {id}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)

	mux.Handle("GET /api/projects", optional(projectHandler.ListProjects))
	mux.Handle("GET /api/projects/featured", optional(projectHandler.ListFeatured))
	mux.Handle("GET /api/projects/user/{userId}", optional(projectHandler.ListUserProjects))
	mux.Handle("GET /api/projects/{id}", optional(projectHandler.GetProject))
	mux.Handle("POST /api/projects", authed(projectHandler.CreateProject))
	mux.Handle("PUT /api/projects/{id}", authed(projectHandler.UpdateProject))
	mux.Handle("PATCH /api/projects/{id}", authed(projectHandler.UpdateProject))
	mux.Handle("DELETE /api/projects/{id}", authed(projectHandler.DeleteProject))

	mux.Handle("POST /api/projects/{id}/comments", authed(engagementHandler.AddComment))
	mux.Handle("DELETE /api/projects/{id}/comments/{commentId}", authed(engagementHandler.RemoveComment))
	mux.Handle("POST /api/projects/{id}/like", authed(engagementHandler.ToggleLike))

	var handler http.Handler = mux
	handler = middleware.Recovery(cfg.Logger)(handler)
	handler = middleware.RequestID(cfg.Logger)(handler)

	// CORS outermost so OPTIONS pre-flight never reaches auth
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	return corsHandler.Handler(handler)
}
