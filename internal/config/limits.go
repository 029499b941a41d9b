package config

const (
	// MaxProjectTitleLength is the maximum length for project titles.
	MaxProjectTitleLength = 100

	// MaxProjectDescriptionLength is the maximum length for the full description.
	MaxProjectDescriptionLength = 2000

	// MaxShortDescriptionLength is the maximum length for card blurbs.
	MaxShortDescriptionLength = 200

	// MaxTechnologies caps the tech stack list of a single project.
	MaxTechnologies = 20

	// MaxTechnologyLength and MaxTagLength bound individual list entries so
	// the text index stays small.
	MaxTechnologyLength = 50
	MaxTagLength        = 50

	// MaxCommentLength is the maximum length for a trimmed comment.
	MaxCommentLength = 1000

	// MaxRequestBodyBytes limits JSON request bodies.
	MaxRequestBodyBytes = 1 << 20
)
