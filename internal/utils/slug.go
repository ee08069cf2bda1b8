package utils

import (
	"regexp"
	"strings"
)

var (
	slugStrip     = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugHyphenate = regexp.MustCompile(`[\s-]+`)
)

// Slugify derives a URL-safe identifier from a human-readable name:
// lowercase, strip everything outside letters, digits, whitespace and
// hyphens, then collapse whitespace/hyphen runs to single hyphens.
// Idempotent.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugStrip.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugHyphenate.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
