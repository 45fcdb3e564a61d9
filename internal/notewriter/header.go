package notewriter

import (
	"strings"
	"unicode/utf8"
)

// shortTitleLimit bounds, in characters, the first line that can count as an
// existing title.
const shortTitleLimit = 100

// NeedsSyntheticHeader reports whether content should get a "# word" title.
// Content that opens with a heading or emphasis marker, or that mentions the
// word and has a first line under 100 characters, is treated as already titled. The rule is a heuristic
// aimed only at avoiding double titles.
func NeedsSyntheticHeader(content, word string) bool {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "*") {
		return false
	}

	// The first line of the raw content; a leading blank line counts as short.
	firstLine, _, _ := strings.Cut(content, "\n")
	if strings.Contains(strings.ToLower(content), strings.ToLower(word)) && utf8.RuneCountInString(firstLine) < shortTitleLimit {
		return false
	}
	return true
}
