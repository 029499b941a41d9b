package service

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"showcase/internal/config"
	"showcase/internal/domain"
	"showcase/internal/domain/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var (
	githubURLPattern = regexp.MustCompile(`^https?://(www\.)?github\.com/[\w-]+/[\w.-]+/?$`)
	liveURLPattern   = regexp.MustCompile(`^https?://.+$`)
	imageURLPattern  = regexp.MustCompile(`(?i)^https?://.+\.(jpg|jpeg|png|gif|webp)$`)
)

// validateProject checks the stored constraints of a fully assembled project.
// It runs after defaults (create) or the merge-patch (update) are applied.
func validateProject(p *models.Project) error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.OwnerID, validation.Required),
		validation.Field(&p.Title,
			validation.Required.Error("project title is required"),
			validation.RuneLength(1, config.MaxProjectTitleLength).
				Error(fmt.Sprintf("title cannot exceed %d characters", config.MaxProjectTitleLength)),
		),
		validation.Field(&p.Description,
			validation.Required.Error("project description is required"),
			validation.RuneLength(1, config.MaxProjectDescriptionLength).
				Error(fmt.Sprintf("description cannot exceed %d characters", config.MaxProjectDescriptionLength)),
		),
		validation.Field(&p.ShortDescription,
			validation.RuneLength(0, config.MaxShortDescriptionLength).
				Error(fmt.Sprintf("short description cannot exceed %d characters", config.MaxShortDescriptionLength)),
		),
		validation.Field(&p.Technologies,
			validation.Required.Error("at least one technology is required"),
			validation.Length(1, config.MaxTechnologies).
				Error(fmt.Sprintf("at most %d technologies are allowed", config.MaxTechnologies)),
			validation.Each(
				validation.Required.Error("technology cannot be blank"),
				validation.RuneLength(1, config.MaxTechnologyLength),
			),
		),
		validation.Field(&p.Tags,
			validation.Each(validation.RuneLength(1, config.MaxTagLength)),
		),
		validation.Field(&p.GithubURL,
			validation.Match(githubURLPattern).Error("please enter a valid GitHub repository URL"),
		),
		validation.Field(&p.LiveURL,
			validation.Match(liveURLPattern).Error("please enter a valid live demo URL"),
		),
		validation.Field(&p.ImageURL,
			validation.Match(imageURLPattern).Error("please enter a valid image URL"),
		),
		validation.Field(&p.Status,
			validation.Required,
			validation.In(statusValues()...).Error("must be one of planning, in-progress, completed, on-hold"),
		),
		validation.Field(&p.Difficulty,
			validation.Required,
			validation.In(difficultyValues()...).Error("must be one of beginner, intermediate, advanced"),
		),
	)
	if err != nil {
		return validationFailure(err)
	}
	return nil
}

// normalizeComment trims the content and checks its length.
func normalizeComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	err := validation.Validate(content,
		validation.Required.Error("comment content is required"),
		validation.RuneLength(1, config.MaxCommentLength).
			Error(fmt.Sprintf("comment cannot exceed %d characters", config.MaxCommentLength)),
	)
	if err != nil {
		return "", validationFailure(err)
	}
	return content, nil
}

// validationFailure converts ozzo-validation output into a domain
// ValidationError with one sorted message per failing field.
func validationFailure(err error) error {
	var errs validation.Errors
	if errors.As(err, &errs) {
		return domain.NewValidationError("validation failed", flattenErrors("", errs)...)
	}

	var ruleErr validation.Error
	if errors.As(err, &ruleErr) {
		return domain.NewValidationError("validation failed", ruleErr.Error())
	}

	// Internal errors from custom rules are not user input problems
	return fmt.Errorf("validate: %w", err)
}

func flattenErrors(prefix string, errs validation.Errors) []string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var details []string
	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		var nested validation.Errors
		if errors.As(errs[k], &nested) {
			details = append(details, flattenErrors(name, nested)...)
			continue
		}
		details = append(details, fmt.Sprintf("%s: %s", name, errs[k].Error()))
	}
	return details
}

func statusValues() []interface{} {
	values := make([]interface{}, len(models.ProjectStatuses))
	for i, s := range models.ProjectStatuses {
		values[i] = s
	}
	return values
}

func difficultyValues() []interface{} {
	values := make([]interface{}, len(models.Difficulties))
	for i, d := range models.Difficulties {
		values[i] = d
	}
	return values
}

// requireID rejects ids that cannot name any stored entity. Malformed ids are
// reported as missing so the id format is not revealed.
func requireID(id, resource string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s %q: %w", resource, id, domain.NewNotFound(resource))
	}
	return nil
}

// normalizeOptional trims an optional string and maps blank to nil.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// normalizeTechnologies trims entries and keeps their order. Blank entries
// are kept so validation can report them.
func normalizeTechnologies(techs []string) []string {
	out := make([]string, len(techs))
	for i, t := range techs {
		out[i] = strings.TrimSpace(t)
	}
	return out
}

// normalizeTags lowercases, trims and de-duplicates tags (set semantics),
// preserving first-seen order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
