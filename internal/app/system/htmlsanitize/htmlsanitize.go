// Package htmlsanitize cleans user-supplied text before it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText strips every tag from s, decodes entities, and collapses runs of
// whitespace, so upload titles are stored as plain text.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	out := html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(out), " ")
}

// IsPlainText reports whether s contains nothing that looks like a tag.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}
