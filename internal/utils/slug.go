package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonWordRe       = regexp.MustCompile(`[^\w-]+`)
	multiDashRe     = regexp.MustCompile(`-{2,}`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	edgeDashTrimSet = "-"
)

// Slugify converts an arbitrary title into a URL-safe slug: lowercase,
// whitespace collapsed into single dashes, anything outside [a-z0-9_-]
// dropped, runs of dashes collapsed.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = nonWordRe.ReplaceAllString(s, "")
	s = multiDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, edgeDashTrimSet)
}

// SlugWithSuffix appends a numeric suffix for collision resolution.
// SlugWithSuffix("modern-loft", 0) returns "modern-loft";
// SlugWithSuffix("modern-loft", 2) returns "modern-loft-2".
func SlugWithSuffix(slug string, n int) string {
	if n <= 0 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, n)
}
