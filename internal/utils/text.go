package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
	lineEndings     = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// CleanText normalizes highlight and note text coming from reading platforms:
// line endings become "\n", runs of spaces and tabs collapse to one space,
// three or more consecutive newlines collapse to a paragraph break, and the
// result is trimmed.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = lineEndings.Replace(s)
	s = horizontalSpace.ReplaceAllString(s, " ")
	s = excessNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Truncate shortens s to at most maxLen bytes, marking the cut with "...".
// The cut never splits a multi-byte rune.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:runeBoundary(s, maxLen)]
	}
	return s[:runeBoundary(s, maxLen-3)] + "..."
}

// runeBoundary moves n back to the start of the rune that contains it.
func runeBoundary(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
