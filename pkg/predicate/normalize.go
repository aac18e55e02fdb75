package predicate

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Whitespace as matched by \s in ECMAScript, which includes the byte order mark.
var whitespace = runes.Predicate(func(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
})

// Normalize removes every whitespace character from s.
func Normalize(s string) string {
	out, _, err := transform.String(runes.Remove(whitespace), s)
	if err != nil {
		return s
	}

	return out
}
