package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Language selects the wording of generated reports
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguagePortuguese Language = "pt"
)

// Normalize returns the language, treating empty as English
func (l Language) Normalize() Language {
	if l == "" {
		return LanguageEnglish
	}
	return l
}

// IsValid checks if the language is supported
func (l Language) IsValid() bool {
	switch l {
	case LanguageEnglish, LanguagePortuguese:
		return true
	default:
		return false
	}
}

// String returns the string representation of the language
func (l Language) String() string {
	return string(l)
}

// ParseLanguage parses a language code such as "pt" or "pt-BR"
func ParseLanguage(s string) (Language, error) {
	code := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	lang := Language(code).Normalize()
	if !lang.IsValid() {
		return "", goerr.New("unsupported language", goerr.V("language", s))
	}
	return lang, nil
}
