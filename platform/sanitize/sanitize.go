// Package sanitize cleans free-form user input before it is sent upstream or
// stored.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)

	entityDecoder = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// StripHTML drops markup, including tags smuggled in as entities.
func StripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = tagPattern.ReplaceAllString(entityDecoder.Replace(s), "")
	return strings.TrimSpace(s)
}

// Text is StripHTML plus control characters turned into spaces and whitespace
// runs collapsed. Used for addresses and suggest queries.
func Text(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, StripHTML(s))
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
