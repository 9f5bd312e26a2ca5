package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// FlattenWhitespace collapses every run of whitespace (newlines
// included) into a single space. Claim instructions come back from
// the API as multi-line markdown-ish text but each record in the
// codes file keeps its instructions on one line.
func FlattenWhitespace(s string) string {
	s = strings.TrimSpace(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}
