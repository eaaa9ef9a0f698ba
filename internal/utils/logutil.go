package utils

import "strings"

// TruncateForLog turns free text into a single-line preview of at most limit runes.
// Runs of whitespace, including line breaks, collapse to one space. "..." marks a cut.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
