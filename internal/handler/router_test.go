package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"showcase/internal/auth"
	"showcase/internal/domain/models"
	"showcase/internal/repository/memory"
	"showcase/internal/service"
	serviceAuth "showcase/internal/service/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret-router-test-secret"

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type projectData struct {
	Project   models.ProjectView `json:"project"`
	LikeCount int                `json:"likeCount"`
	Liked     bool               `json:"liked"`
}

type pageData struct {
	Projects   []models.ProjectView `json:"projects"`
	Pagination models.Pagination    `json:"pagination"`
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
	store   *memory.Store
}

func newTestAPI(t *testing.T, pinger Pinger) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	authorizer := serviceAuth.NewOwnerBasedAuthorizer()

	engagement := service.NewEngagementService(store.Projects(), store.Engagement(), store.Users(), authorizer, store.TransactionManager(), logger)
	projects := service.NewProjectService(store.Projects(), store.Users(), engagement, authorizer, store.TransactionManager(), "english", logger)

	h := NewRouter(RouterConfig{
		Projects:    projects,
		Engagement:  engagement,
		Projector:   service.NewProjectProjector(store.Users(), logger),
		Verifier:    auth.NewHMACVerifier(testSecret, logger),
		Store:       pinger,
		CORSOrigins: []string{"http://localhost:3000"},
		Logger:      logger,
	})

	return &testAPI{t: t, handler: h, store: store}
}

func (a *testAPI) user(name string) (id, token string) {
	a.t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Avatar: name + ".png", IsActive: true}
	require.NoError(a.t, a.store.Users().Create(context.Background(), u))

	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(a.t, err)
	return u.ID, signed
}

func (a *testAPI) do(method, path, token string, body interface{}) (int, apiResponse) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec.Code, resp
}

func decodeData[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

func newProjectBody(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":        title,
		"description":  "Description of " + title,
		"technologies": []string{"Go", "React"},
	}
}

func TestProjectLifecycle(t *testing.T) {
	api := newTestAPI(t, nil)
	ownerID, ownerToken := api.user("ada")
	_, otherToken := api.user("bob")

	status, resp := api.do(http.MethodPost, "/api/projects", "", newProjectBody("Engine"))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "access denied: no token provided", resp.Message)

	status, resp = api.do(http.MethodPost, "/api/projects", ownerToken, newProjectBody("Engine"))
	require.Equal(t, http.StatusCreated, status, resp.Message)
	assert.True(t, resp.Success)
	assert.Equal(t, "Project created successfully", resp.Message)
	created := decodeData[projectData](t, resp).Project
	assert.Equal(t, ownerID, created.Owner.ID)
	assert.Equal(t, "ada", created.Owner.Name)
	assert.Equal(t, "ada.png", created.Owner.Avatar)
	assert.Equal(t, models.StatusCompleted, created.Status)
	assert.NotNil(t, created.Comments)

	path := "/api/projects/" + created.ID

	status, resp = api.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, decodeData[projectData](t, resp).Project.Views)

	status, resp = api.do(http.MethodPatch, path, otherToken, map[string]interface{}{"title": "Stolen"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, resp.Success)

	status, resp = api.do(http.MethodPut, path, ownerToken, map[string]interface{}{
		"title":   "Engine v2",
		"liveUrl": "https://engine.example.com",
	})
	require.Equal(t, http.StatusOK, status, resp.Message)
	updated := decodeData[projectData](t, resp).Project
	assert.Equal(t, "Engine v2", updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	require.NotNil(t, updated.LiveURL)

	status, resp = api.do(http.MethodPatch, path, ownerToken, map[string]interface{}{"liveUrl": nil})
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, decodeData[projectData](t, resp).Project.LiveURL)

	status, resp = api.do(http.MethodPatch, path, ownerToken, map[string]interface{}{"status": "abandoned"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, resp.Errors)

	status, _ = api.do(http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, resp = api.do(http.MethodDelete, path, ownerToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Project deleted successfully", resp.Message)

	status, resp = api.do(http.MethodGet, path, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "project not found", resp.Message)
}

func TestCreateProject_ValidationErrors(t *testing.T) {
	api := newTestAPI(t, nil)
	_, token := api.user("ada")

	status, resp := api.do(http.MethodPost, "/api/projects", token, map[string]interface{}{"title": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Errors, "title: project title is required")
	assert.Contains(t, resp.Errors, "technologies: at least one technology is required")

	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewBufferString("{broken"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeactivatedUserCannotWrite(t *testing.T) {
	api := newTestAPI(t, nil)
	id, token := api.user("retired")
	require.NoError(t, api.store.SetActive(id, false))

	status, resp := api.do(http.MethodPost, "/api/projects", token, newProjectBody("Late"))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "account is deactivated", resp.Message)
}

func TestEngagementEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	_, ownerToken := api.user("ada")
	fanID, fanToken := api.user("bob")
	_, strangerToken := api.user("eve")

	_, resp := api.do(http.MethodPost, "/api/projects", ownerToken, newProjectBody("Engine"))
	projectID := decodeData[projectData](t, resp).Project.ID
	base := "/api/projects/" + projectID

	status, resp := api.do(http.MethodPost, base+"/comments", fanToken, map[string]string{"content": "  Love it  "})
	require.Equal(t, http.StatusCreated, status, resp.Message)
	assert.Equal(t, "Comment added successfully", resp.Message)
	withComment := decodeData[projectData](t, resp).Project
	require.Len(t, withComment.Comments, 1)
	assert.Equal(t, "Love it", withComment.Comments[0].Content)
	assert.Equal(t, "bob", withComment.Comments[0].Author.Name)
	assert.Equal(t, 1, withComment.CommentCount)
	commentID := withComment.Comments[0].ID

	status, _ = api.do(http.MethodPost, base+"/comments", fanToken, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodDelete, base+"/comments/"+commentID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, resp = api.do(http.MethodPost, base+"/like", fanToken, nil)
	require.Equal(t, http.StatusOK, status)
	liked := decodeData[projectData](t, resp)
	assert.Equal(t, "Project liked", resp.Message)
	assert.True(t, liked.Liked)
	assert.Equal(t, 1, liked.LikeCount)
	require.Len(t, liked.Project.Likes, 1)
	assert.Equal(t, fanID, liked.Project.Likes[0].UserID)

	status, resp = api.do(http.MethodPost, base+"/like", fanToken, nil)
	require.Equal(t, http.StatusOK, status)
	unliked := decodeData[projectData](t, resp)
	assert.Equal(t, "Project unliked", resp.Message)
	assert.False(t, unliked.Liked)
	assert.Zero(t, unliked.LikeCount)

	status, resp = api.do(http.MethodDelete, base+"/comments/"+commentID, ownerToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Comment deleted successfully", resp.Message)
	assert.Empty(t, decodeData[projectData](t, resp).Project.Comments)

	status, _ = api.do(http.MethodDelete, base+"/comments/"+commentID, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = api.do(http.MethodPost, base+"/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestListingEndpoints(t *testing.T) {
	api := newTestAPI(t, nil)
	ownerID, ownerToken := api.user("ada")
	_, otherToken := api.user("bob")

	for _, title := range []string{"Alpha Dashboard", "Beta Service", "Gamma Tool"} {
		status, _ := api.do(http.MethodPost, "/api/projects", ownerToken, newProjectBody(title))
		require.Equal(t, http.StatusCreated, status)
	}
	hidden := newProjectBody("Hidden")
	hidden["isPublic"] = false
	status, _ := api.do(http.MethodPost, "/api/projects", ownerToken, hidden)
	require.Equal(t, http.StatusCreated, status)

	status, resp := api.do(http.MethodGet, "/api/projects?limit=2&page=2", "", nil)
	require.Equal(t, http.StatusOK, status)
	page := decodeData[pageData](t, resp)
	assert.Len(t, page.Projects, 1)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 2, Total: 3, Pages: 2}, page.Pagination)

	_, resp = api.do(http.MethodGet, "/api/projects?search=dashboard", "", nil)
	page = decodeData[pageData](t, resp)
	require.Len(t, page.Projects, 1)
	assert.Equal(t, "Alpha Dashboard", page.Projects[0].Title)

	_, resp = api.do(http.MethodGet, "/api/projects?technologies=Rust,React", "", nil)
	assert.Equal(t, 3, decodeData[pageData](t, resp).Pagination.Total)

	status, _ = api.do(http.MethodGet, "/api/projects?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = api.do(http.MethodGet, "/api/projects?limit=101", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = api.do(http.MethodGet, "/api/projects?status=unknown", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	_, resp = api.do(http.MethodGet, "/api/projects/user/"+ownerID, ownerToken, nil)
	assert.Equal(t, 4, decodeData[pageData](t, resp).Pagination.Total)
	_, resp = api.do(http.MethodGet, "/api/projects/user/"+ownerID, otherToken, nil)
	assert.Equal(t, 3, decodeData[pageData](t, resp).Pagination.Total)

	status, resp = api.do(http.MethodGet, "/api/projects/featured", "", nil)
	require.Equal(t, http.StatusOK, status)
	featured := decodeData[pageData](t, resp)
	assert.NotNil(t, featured.Projects)
	assert.Empty(t, featured.Projects)

	status, resp = api.do(http.MethodGet, "/api/projects/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "project not found", resp.Message)

	status, _ = api.do(http.MethodGet, "/api/projects", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealth(t *testing.T) {
	status, resp := newTestAPI(t, nil).do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)

	status, resp = newTestAPI(t, failingPinger{}).do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "store unavailable", resp.Message)
}

func TestCORSAndRequestID(t *testing.T) {
	api := newTestAPI(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
