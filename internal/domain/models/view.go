package models

import "time"

// ProjectView is the client-safe shape of a project. Embedded users are
// reduced to UserSummary and the engagement counts are computed at read time.
type ProjectView struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	ShortDescription *string       `json:"shortDescription,omitempty"`
	Technologies     []string      `json:"technologies"`
	Tags             []string      `json:"tags"`
	GithubURL        *string       `json:"githubUrl,omitempty"`
	LiveURL          *string       `json:"liveUrl,omitempty"`
	ImageURL         *string       `json:"imageUrl,omitempty"`
	Status           ProjectStatus `json:"status"`
	Difficulty       Difficulty    `json:"difficulty"`
	IsPublic         bool          `json:"isPublic"`
	Featured         bool          `json:"featured"`
	Owner            UserSummary   `json:"owner"`
	Comments         []CommentView `json:"comments"`
	Likes            []Like        `json:"likes"`
	Views            int64         `json:"views"`
	LikeCount        int           `json:"likeCount"`
	CommentCount     int           `json:"commentCount"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// CommentView is a comment with its author resolved for display.
type CommentView struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	Author    UserSummary `json:"author"`
	CreatedAt time.Time   `json:"createdAt"`
}
