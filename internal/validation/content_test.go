package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateText(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateText("hello"))
	assert.ErrorIs(t, ValidateText(""), ErrBlank)
	assert.ErrorIs(t, ValidateText(" \n\t "), ErrBlank)
}

func TestValidateGroupSlug(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		slug string
		ok   bool
	}{
		{name: "simple", slug: "cats", ok: true},
		{name: "with hyphen", slug: "test-slug", ok: true},
		{name: "with underscore", slug: "leo_group", ok: true},
		{name: "single char", slug: "a", ok: true},
		{name: "max length", slug: strings.Repeat("a", 50), ok: true},
		{name: "too long", slug: strings.Repeat("a", 51), ok: false},
		{name: "empty", slug: "", ok: false},
		{name: "uppercase", slug: "Cats", ok: false},
		{name: "space", slug: "big cats", ok: false},
		{name: "slash", slug: "cats/dogs", ok: false},
		{name: "leading hyphen", slug: "-cats", ok: false},
		{name: "trailing underscore", slug: "cats_", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateGroupSlug(tc.slug)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateGroupTitle(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateGroupTitle("Cats"))
	assert.Error(t, ValidateGroupTitle("  "))
	assert.NoError(t, ValidateGroupTitle(strings.Repeat("я", 200)))
	assert.Error(t, ValidateGroupTitle(strings.Repeat("я", 201)))
}
