// Package strings holds small string helpers shared by the marker resolver and
// the report formatters.
package strings

import (
	"strings"
)

// DefaultNameMaxLen is the default width of task and project names in report tables.
const DefaultNameMaxLen = 48

// MinTruncateLen is the smallest useful maxLen: one rune plus "...".
const MinTruncateLen = 4

// TruncateName collapses whitespace in a node name to single spaces and shortens
// it to at most maxLen runes, ending in "..." when cut.
func TruncateName(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// HasTrimmedSuffix reports whether name, with surrounding whitespace removed,
// ends with suffix. The comparison is case-sensitive. An empty suffix never matches.
func HasTrimmedSuffix(name, suffix string) bool {
	if suffix == "" {
		return false
	}
	return strings.HasSuffix(strings.TrimSpace(name), suffix)
}
