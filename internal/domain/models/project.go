package models

import (
	"time"
)

// ProjectStatus is a flat enumeration; any authorized update may move a
// project to any status.
type ProjectStatus string

const (
	StatusPlanning   ProjectStatus = "planning"
	StatusInProgress ProjectStatus = "in-progress"
	StatusCompleted  ProjectStatus = "completed"
	StatusOnHold     ProjectStatus = "on-hold"
)

// ProjectStatuses lists every accepted status value.
var ProjectStatuses = []ProjectStatus{StatusPlanning, StatusInProgress, StatusCompleted, StatusOnHold}

// Valid reports whether s is a known status.
func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Difficulty classifies how hard a project was to build.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Difficulties lists every accepted difficulty value.
var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	for _, v := range Difficulties {
		if d == v {
			return true
		}
	}
	return false
}

// Defaults applied when a project is created without explicit values.
const (
	DefaultProjectStatus     = StatusCompleted
	DefaultProjectDifficulty = DifficultyIntermediate
)

// Project is the aggregate root: comments and likes live and die with it.
type Project struct {
	ID               string        `json:"id" db:"id"`
	OwnerID          string        `json:"owner" db:"owner_id"`
	Title            string        `json:"title" db:"title"`
	Description      string        `json:"description" db:"description"`
	ShortDescription *string       `json:"shortDescription,omitempty" db:"short_description"`
	Technologies     []string      `json:"technologies" db:"technologies"`
	Tags             []string      `json:"tags" db:"tags"`
	GithubURL        *string       `json:"githubUrl,omitempty" db:"github_url"`
	LiveURL          *string       `json:"liveUrl,omitempty" db:"live_url"`
	ImageURL         *string       `json:"imageUrl,omitempty" db:"image_url"`
	Status           ProjectStatus `json:"status" db:"status"`
	Difficulty       Difficulty    `json:"difficulty" db:"difficulty"`
	IsPublic         bool          `json:"isPublic" db:"is_public"`
	Featured         bool          `json:"featured" db:"featured"`
	Views            int64         `json:"views" db:"views"`
	Comments         []Comment     `json:"comments" db:"-"`
	Likes            []Like        `json:"likes" db:"-"`
	CreatedAt        time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time     `json:"updatedAt" db:"updated_at"`
}

// Comment is owned by its project.
type Comment struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"-" db:"project_id"`
	AuthorID  string    `json:"author" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Like is keyed by user: a project holds at most one like per user.
type Like struct {
	UserID    string    `json:"user" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// IsOwnedBy reports whether userID owns the project. Anonymous callers
// (empty userID) never own anything.
func (p *Project) IsOwnedBy(userID string) bool {
	return userID != "" && p.OwnerID == userID
}

// LikeCount is computed from the live like set, never from a stored counter.
func (p *Project) LikeCount() int { return len(p.Likes) }

// CommentCount is computed from the live comment list.
func (p *Project) CommentCount() int { return len(p.Comments) }

// LikedBy reports whether userID currently likes the project.
func (p *Project) LikedBy(userID string) bool {
	for _, like := range p.Likes {
		if like.UserID == userID {
			return true
		}
	}
	return false
}

// FindComment returns the comment with the given id, or nil.
func (p *Project) FindComment(commentID string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (p *Project) Clone() *Project {
	c := *p
	c.ShortDescription = cloneString(p.ShortDescription)
	c.GithubURL = cloneString(p.GithubURL)
	c.LiveURL = cloneString(p.LiveURL)
	c.ImageURL = cloneString(p.ImageURL)
	c.Technologies = append([]string(nil), p.Technologies...)
	c.Tags = append([]string(nil), p.Tags...)
	c.Comments = append([]Comment(nil), p.Comments...)
	c.Likes = append([]Like(nil), p.Likes...)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPatch carries a tri-state update for an optional string field:
// absent (leave alone), present with nil Value (clear) or present with a value.
type StringPatch struct {
	Present bool
	Value   *string
}
