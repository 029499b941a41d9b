package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"showcase/internal/domain"
	"showcase/internal/domain/models"
	"showcase/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProjectRepository implements the ProjectRepository interface
type PostgresProjectRepository struct {
	pool     *pgxpool.Pool
	language string
	logger   *slog.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectRepository {
	language := config.SearchLanguage
	if language == "" {
		language = models.DefaultSearchLanguage
	}
	return &PostgresProjectRepository{
		pool:     config.Pool,
		language: language,
		logger:   config.Logger,
	}
}

// Create creates a new project
func (r *PostgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO projects (
			title, description, technologies, owner_id, short_description, tags,
			github_url, live_url, image_url, status, difficulty, is_public,
			featured, created_at, updated_at, search_vector
		)
		VALUES ($2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, %s)
		RETURNING id, created_at, updated_at
	`, searchVectorExpr)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		r.language,
		project.Title,
		project.Description,
		project.Technologies,
		project.OwnerID,
		project.ShortDescription,
		nonNilStrings(project.Tags),
		project.GithubURL,
		project.LiveURL,
		project.ImageURL,
		string(project.Status),
		string(project.Difficulty),
		project.IsPublic,
		project.Featured,
		project.CreatedAt,
		project.UpdatedAt,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		if IsPgCheckViolation(err) {
			return domain.NewValidationError("validation failed", "project violates a stored constraint")
		}
		return storeError("create project", err)
	}

	if project.Comments == nil {
		project.Comments = []models.Comment{}
	}
	if project.Likes == nil {
		project.Likes = []models.Like{}
	}

	return nil
}

// GetByID loads a project with its comments and likes
func (r *PostgresProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return r.getByID(ctx, id, "")
}

// GetByIDForUpdate loads a project and holds its row lock until the
// enclosing transaction commits or rolls back
func (r *PostgresProjectRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Project, error) {
	return r.getByID(ctx, id, "FOR UPDATE OF p")
}

func (r *PostgresProjectRepository) getByID(ctx context.Context, id, lockClause string) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM projects p
		WHERE p.id = $1
		%s
	`, projectColumns, lockClause)

	executor := GetExecutor(ctx, r.pool)
	project, err := scanProject(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("project %s: %w", id, domain.NewNotFound("project"))
		}
		return nil, storeError("get project", err)
	}

	projects := []models.Project{*project}
	if err := r.loadEngagement(ctx, projects); err != nil {
		return nil, err
	}

	return &projects[0], nil
}

// Update overwrites the content fields and refreshes the search vector
func (r *PostgresProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		UPDATE projects
		SET title = $2, description = $3, technologies = $4,
		    short_description = $6, tags = $7, github_url = $8, live_url = $9,
		    image_url = $10, status = $11, difficulty = $12, is_public = $13,
		    featured = $14, updated_at = $15, search_vector = %s
		WHERE id = $16 AND owner_id = $5
	`, searchVectorExpr)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		r.language,
		project.Title,
		project.Description,
		project.Technologies,
		project.OwnerID,
		project.ShortDescription,
		nonNilStrings(project.Tags),
		project.GithubURL,
		project.LiveURL,
		project.ImageURL,
		string(project.Status),
		string(project.Difficulty),
		project.IsPublic,
		project.Featured,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		if IsPgCheckViolation(err) {
			return domain.NewValidationError("validation failed", "project violates a stored constraint")
		}
		return storeError("update project", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", project.ID, domain.NewNotFound("project"))
	}

	return nil
}

// Delete removes a project; comments and likes go with it through ON DELETE CASCADE
func (r *PostgresProjectRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM projects WHERE id = $1 AND owner_id = $2`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return storeError("delete project", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, domain.NewNotFound("project"))
	}

	return nil
}

// List returns one page of matching projects and the total match count
func (r *PostgresProjectRepository) List(ctx context.Context, q *models.ProjectQuery) ([]models.Project, int, error) {
	stmt := buildProjectListSQL(q)
	executor := GetExecutor(ctx, r.pool)

	var total int
	if err := executor.QueryRow(ctx, stmt.Count, stmt.CountArgs...).Scan(&total); err != nil {
		return nil, 0, storeError("count projects", err)
	}

	rows, err := executor.Query(ctx, stmt.Select, stmt.SelectArgs...)
	if err != nil {
		return nil, 0, storeError("list projects", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, storeError("scan project", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeError("iterate projects", err)
	}

	if err := r.loadEngagement(ctx, projects); err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// loadEngagement fills Comments and Likes for every project with one query each.
func (r *PostgresProjectRepository) loadEngagement(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}

	ids := make([]string, len(projects))
	index := make(map[string]int, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
		index[projects[i].ID] = i
		projects[i].Comments = []models.Comment{}
		projects[i].Likes = []models.Like{}
	}

	executor := GetExecutor(ctx, r.pool)

	commentRows, err := executor.Query(ctx, `
		SELECT id, project_id, author_id, content, created_at
		FROM project_comments
		WHERE project_id = ANY($1::text[]::uuid[])
		ORDER BY seq
	`, ids)
	if err != nil {
		return storeError("load comments", err)
	}
	defer commentRows.Close()

	for commentRows.Next() {
		var c models.Comment
		if err := commentRows.Scan(&c.ID, &c.ProjectID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return storeError("scan comment", err)
		}
		i := index[c.ProjectID]
		projects[i].Comments = append(projects[i].Comments, c)
	}
	if err := commentRows.Err(); err != nil {
		return storeError("iterate comments", err)
	}
	// A transaction holds one connection; release it before the next query
	commentRows.Close()

	likeRows, err := executor.Query(ctx, `
		SELECT project_id, user_id, created_at
		FROM project_likes
		WHERE project_id = ANY($1::text[]::uuid[])
		ORDER BY created_at, user_id
	`, ids)
	if err != nil {
		return storeError("load likes", err)
	}
	defer likeRows.Close()

	for likeRows.Next() {
		var projectID string
		var l models.Like
		if err := likeRows.Scan(&projectID, &l.UserID, &l.CreatedAt); err != nil {
			return storeError("scan like", err)
		}
		i := index[projectID]
		projects[i].Likes = append(projects[i].Likes, l)
	}
	if err := likeRows.Err(); err != nil {
		return storeError("iterate likes", err)
	}

	return nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	var status, difficulty string
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Description,
		&p.ShortDescription,
		&p.Technologies,
		&p.Tags,
		&p.GithubURL,
		&p.LiveURL,
		&p.ImageURL,
		&status,
		&difficulty,
		&p.IsPublic,
		&p.Featured,
		&p.Views,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = models.ProjectStatus(status)
	p.Difficulty = models.Difficulty(difficulty)
	return &p, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
