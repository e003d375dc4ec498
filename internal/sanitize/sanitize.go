// Package sanitize holds the two string-cleaning policies applied to
// user-supplied text before it reaches storage. Input is the strict policy
// for form fields; FilterTerm is the lighter one for search and category
// filters. They are not interchangeable.
package sanitize

import (
	"regexp"
	"strings"
)

const (
	// MaxInputLen caps sanitized form-field values.
	MaxInputLen = 255
	// MaxFilterTermLen caps sanitized search/filter terms.
	MaxFilterTermLen = 500
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// escaper rewrites the HTML-significant characters in a single pass, so a
// value is never double-escaped within one call.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// Input sanitizes a form-field value: trims surrounding whitespace, strips
// HTML tags, escapes the remaining HTML-significant characters and truncates
// the result to MaxInputLen characters.
//
// Input is one-way. Escaping an already-escaped value double-escapes the
// ampersands, so apply it exactly once, at the storage boundary.
func Input(s string) string {
	s = strings.TrimSpace(s)
	s = tagPattern.ReplaceAllString(s, "")
	s = escaper.Replace(s)
	return truncate(s, MaxInputLen)
}

// FilterTerm sanitizes a search or category filter term: trims, drops angle
// brackets and truncates to MaxFilterTermLen characters. No entity escaping;
// the value is matched against catalog data, never rendered as HTML.
func FilterTerm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	return truncate(s, MaxFilterTermLen)
}

// truncate cuts s to at most max runes. Cutting by rune keeps multibyte
// characters (umlauts, ß) intact; a byte slice could leave a dangling UTF-8
// lead byte at the end.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
