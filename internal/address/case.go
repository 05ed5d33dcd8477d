package address

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// titleCase upper-cases the first letter of each word and collapses runs of
// whitespace; libpostal returns normalized lower-case values.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
