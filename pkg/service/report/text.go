package report

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// latin1 replaces runes the core PDF fonts cannot render. Line breaks are kept,
// other control characters become spaces and anything outside Latin-1 becomes '?'.
func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r < 0x20 || r == 0x7f:
			return ' '
		case r < 0x80:
			return r
		case r >= 0xa0 && r <= 0xff:
			return r
		default:
			return '?'
		}
	}, s)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// FileName builds a download-safe file name from an assessment title. Accents
// are stripped ("Análise" becomes "Analise"), whitespace runs become one
// underscore and anything outside [A-Za-z0-9_.-] is dropped.
func FileName(title, suffix, ext string) string {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripAccents, title)
	if err != nil {
		plain = title
	}

	name := strings.Join(strings.Fields(plain), "_")
	name = unsafeFileChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._-")
	if name == "" {
		name = "assessment"
	}
	return name + suffix + ext
}
