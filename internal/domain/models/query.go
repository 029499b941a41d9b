package models

import (
	"fmt"
	"strings"

	"showcase/internal/domain"
)

// Default listing configuration values
const (
	DefaultPage           = 1
	DefaultPageLimit      = 12
	MaxPageLimit          = 100
	DefaultFeaturedLimit  = 10
	DefaultSearchLanguage = "english"
)

// ProjectQuery describes a bounded project listing. Zero values mean "no
// restriction" for every filter field.
type ProjectQuery struct {
	// Search is matched against title, description and technologies through
	// the store's text index. Results are ranked by relevance, then newest first.
	Search string

	// Technologies matches projects using ANY of the listed technologies.
	Technologies []string

	Status     ProjectStatus
	Difficulty Difficulty

	// OwnerID restricts the listing to one owner's projects.
	OwnerID string

	// PublicOnly hides private projects. Every listing sets this except an
	// owner browsing their own projects.
	PublicOnly bool

	FeaturedOnly bool

	// Pagination (1-indexed)
	Page  int
	Limit int

	// Language is the text search configuration used for stemming.
	Language string
}

// ApplyDefaults fills in default values for unset fields and drops empty
// technology entries.
func (q *ProjectQuery) ApplyDefaults() {
	q.Search = strings.TrimSpace(q.Search)
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Language == "" {
		q.Language = DefaultSearchLanguage
	}

	techs := q.Technologies[:0:0]
	for _, t := range q.Technologies {
		if t = strings.TrimSpace(t); t != "" {
			techs = append(techs, t)
		}
	}
	q.Technologies = techs
}

// Validate checks enum filters and pagination bounds.
func (q *ProjectQuery) Validate() error {
	var details []string

	if q.Status != "" && !q.Status.Valid() {
		details = append(details, fmt.Sprintf("status: must be one of %s", joinValues(ProjectStatuses)))
	}
	if q.Difficulty != "" && !q.Difficulty.Valid() {
		details = append(details, fmt.Sprintf("difficulty: must be one of %s", joinValues(Difficulties)))
	}
	if q.Page < 1 {
		details = append(details, "page: must be at least 1")
	}
	if q.Limit < 1 {
		details = append(details, "limit: must be at least 1")
	}
	if q.Limit > MaxPageLimit {
		details = append(details, fmt.Sprintf("limit: cannot exceed %d (requested: %d)", MaxPageLimit, q.Limit))
	}

	if len(details) > 0 {
		return domain.NewValidationError("invalid query", details...)
	}
	return nil
}

// Offset is the number of rows skipped before the current page.
func (q *ProjectQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// Pagination is the metadata returned alongside a listing page.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes the page count from the total match count.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// ProjectPage is one page of a listing plus its pagination metadata.
type ProjectPage struct {
	Projects   []Project
	Pagination Pagination
}
