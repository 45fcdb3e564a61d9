// Package pattern expands note naming patterns into a wikilink and the vault
// path of the note it points to.
package pattern

import (
	"regexp"
	"strings"

	"github.com/starford/lexicon/internal/settings"
)

// Extension is appended to every derived note path.
const Extension = ".md"

// linkRe matches [[identifier]] and [[identifier|display]].
var linkRe = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|[^\[\]]*)?\]\]`)

// Target is the outcome of resolving a pattern for one word.
type Target struct {
	// Link is the expanded pattern, inserted in place of the selection.
	Link string
	// Path is the vault-relative note path derived from Link.
	Path string
}

// Resolve substitutes word for every placeholder in pattern. The note path is
// the identifier of the first wikilink in the result; when there is none the
// whole expansion is used. Malformed patterns are not rejected.
func Resolve(pattern, word string) Target {
	link := strings.ReplaceAll(pattern, settings.Placeholder, word)

	id := link
	if m := linkRe.FindStringSubmatch(link); m != nil {
		id = m[1]
	}

	return Target{
		Link: link,
		Path: id + Extension,
	}
}
