package util

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeWhitespace trims and collapses whitespace to single spaces.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Preview returns at most n runes of s on one line, with "..." appended when
// anything was cut.
func Preview(s string, n int) string {
	s = NormalizeWhitespace(s)
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}

// CharCount counts user-perceived characters the way the preview does (runes).
func CharCount(s string) int { return utf8.RuneCountInString(s) }
