package intent

import (
	"strings"
	"unicode"
)

// Normalize lowercases the input, trims it, and collapses internal runs of
// whitespace to single spaces. All matching works on normalized text; param
// extraction uses the trimmed original to preserve casing.
func Normalize(text string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// trimInput collapses whitespace but keeps the original casing
func trimInput(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
