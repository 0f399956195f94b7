package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Modern Loft in Downtown", "modern-loft-in-downtown"},
		{"  Spacious   Villa  ", "spacious-villa"},
		{"Beach House #12 (Ocean View!)", "beach-house-12-ocean-view"},
		{"UPPER case TITLE", "upper-case-title"},
		{"already-a-slug", "already-a-slug"},
		{"dash -- collapse --- here", "dash-collapse-here"},
		{"", ""},
		{"!!!", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in), "input %q", c.in)
	}
}

func TestSlugWithSuffix(t *testing.T) {
	assert.Equal(t, "modern-loft", SlugWithSuffix("modern-loft", 0))
	assert.Equal(t, "modern-loft-1", SlugWithSuffix("modern-loft", 1))
	assert.Equal(t, "modern-loft-2", SlugWithSuffix("modern-loft", 2))
}
