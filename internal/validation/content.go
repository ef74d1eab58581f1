package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxGroupTitleLength = 200
	MaxGroupSlugLength  = 50
)

var groupSlugRegex = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// ErrBlank is returned for text that is empty once whitespace is trimmed.
var ErrBlank = errors.New("this field is required")

// ValidateText requires non-blank text. Posts and comments share this rule.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrBlank
	}
	return nil
}

// ValidateGroupSlug checks the URL-safe slug used in /group/<slug>/.
func ValidateGroupSlug(slug string) error {
	if slug == "" || len(slug) > MaxGroupSlugLength {
		return fmt.Errorf("slug must be 1-%d characters", MaxGroupSlugLength)
	}
	if !groupSlugRegex.MatchString(slug) {
		return errors.New("slug may contain only lowercase letters, digits, hyphens and underscores, and must start and end with a letter or digit")
	}
	return nil
}

func ValidateGroupTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrBlank
	}
	if utf8.RuneCountInString(title) > MaxGroupTitleLength {
		return fmt.Errorf("title must be at most %d characters", MaxGroupTitleLength)
	}
	return nil
}
