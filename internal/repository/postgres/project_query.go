package postgres

import (
	"fmt"
	"strings"

	"showcase/internal/domain/models"
)

const projectColumns = `p.id, p.owner_id, p.title, p.description, p.short_description,
		       p.technologies, p.tags, p.github_url, p.live_url, p.image_url,
		       p.status, p.difficulty, p.is_public, p.featured, p.views,
		       p.created_at, p.updated_at`

// searchVectorExpr builds the indexed document from title, description and
// technologies. $1 is always the text search configuration.
const searchVectorExpr = `to_tsvector($1::text::regconfig, $2 || ' ' || $3 || ' ' || array_to_string($4::text[], ' '))`

// listStatement is a paged listing split into its page and count queries.
type listStatement struct {
	Select     string
	SelectArgs []interface{}
	Count      string
	CountArgs  []interface{}
}

// buildProjectListSQL translates a validated query into parameterized SQL.
// Filters are ANDed; technologies match on overlap (any of).
func buildProjectListSQL(q *models.ProjectQuery) listStatement {
	var conditions []string
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	rank := ""
	if q.Search != "" {
		lang := next(q.Language)
		term := next(q.Search)
		tsquery := fmt.Sprintf("websearch_to_tsquery(%s::text::regconfig, %s)", lang, term)
		conditions = append(conditions, fmt.Sprintf("p.search_vector @@ %s", tsquery))
		rank = fmt.Sprintf("ts_rank(p.search_vector, %s) DESC, ", tsquery)
	}
	if q.PublicOnly {
		conditions = append(conditions, "p.is_public = TRUE")
	}
	if q.FeaturedOnly {
		conditions = append(conditions, "p.featured = TRUE")
	}
	if q.OwnerID != "" {
		conditions = append(conditions, fmt.Sprintf("p.owner_id = %s", next(q.OwnerID)))
	}
	if len(q.Technologies) > 0 {
		conditions = append(conditions, fmt.Sprintf("p.technologies && %s::text[]", next(q.Technologies)))
	}
	if q.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = %s", next(string(q.Status))))
	}
	if q.Difficulty != "" {
		conditions = append(conditions, fmt.Sprintf("p.difficulty = %s", next(string(q.Difficulty))))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, "\n\t\t  AND ")
	}

	countArgs := append([]interface{}(nil), args...)
	count := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM projects p
		%s
	`, where)

	limit := next(q.Limit)
	offset := next(q.Offset())
	sel := fmt.Sprintf(`
		SELECT %s
		FROM projects p
		%s
		ORDER BY %sp.created_at DESC, p.id DESC
		LIMIT %s OFFSET %s
	`, projectColumns, where, rank, limit, offset)

	return listStatement{
		Select:     sel,
		SelectArgs: args,
		Count:      count,
		CountArgs:  countArgs,
	}
}
