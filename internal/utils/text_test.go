package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    " \t\r\n  \n",
			expected: "",
		},
		{
			name:     "normalizes windows line endings",
			input:    "first\r\nsecond",
			expected: "first\nsecond",
		},
		{
			name:     "normalizes bare carriage returns",
			input:    "first\rsecond",
			expected: "first\nsecond",
		},
		{
			name:     "collapses spaces and tabs",
			input:    "a  \t  b\t\tc",
			expected: "a b c",
		},
		{
			name:     "collapses three or more newlines",
			input:    "para one\n\n\n\npara two",
			expected: "para one\n\npara two",
		},
		{
			name:     "keeps a single blank line",
			input:    "para one\n\npara two",
			expected: "para one\n\npara two",
		},
		{
			name:     "mixed line endings count toward newline runs",
			input:    "a\r\n\r\n\rb",
			expected: "a\n\nb",
		},
		{
			name:     "trims surrounding whitespace",
			input:    "  \n  text  \n ",
			expected: "text",
		},
		{
			name:     "keeps non-ascii content",
			input:    "  人生如逆旅，  我亦是行人。 ",
			expected: "人生如逆旅， 我亦是行人。",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))

	t.Run("multi-byte text is cut on a rune boundary", func(t *testing.T) {
		msg := "weread status 500: " + strings.Repeat("登录超时", 60)
		got := Truncate(msg, 500)
		assert.True(t, utf8.ValidString(got))
		assert.LessOrEqual(t, len(got), 500)
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.True(t, strings.HasPrefix(msg, strings.TrimSuffix(got, "...")))

		assert.Equal(t, "登...", Truncate("登录超时", 8))
		assert.Equal(t, "", Truncate("登录", 2))
	})
}
