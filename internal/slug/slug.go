// Package slug turns free-form labels into canonical branch ids.
//
// A branch id is lowercase, uses hyphens as the only separator and never
// starts or ends with one. "Fix Bug #123" and "fix-bug-123" name the same
// environment. Distinct labels may collide; that is accepted.
package slug

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize returns the branch id for raw. An empty result means raw had
// no ASCII letters or digits and must be rejected by the caller.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Valid reports whether id is already in canonical form.
func Valid(id string) bool {
	return id != "" && Normalize(id) == id
}
