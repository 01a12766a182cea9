// Package locale owns the supported site languages, browser language
// detection and the localized message catalog.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported site language.
type Language string

const (
	Portuguese Language = "pt"
	English    Language = "en"
)

// DefaultLanguage is used when detection finds no supported match.
const DefaultLanguage = English

// Supported lists the site languages; the first entry is the detection default.
var Supported = []Language{English, Portuguese}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Portuguese})

// ParseLanguage accepts a supported language code, case-insensitively.
func ParseLanguage(s string) (Language, error) {
	switch l := Language(strings.ToLower(strings.TrimSpace(s))); l {
	case Portuguese, English:
		return l, nil
	default:
		return "", fmt.Errorf("unsupported language %q", s)
	}
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	_, err := ParseLanguage(string(l))
	return err == nil
}

// Toggle returns the other supported language.
func (l Language) Toggle() Language {
	if l == Portuguese {
		return English
	}
	return Portuguese
}

// Tag returns the BCP 47 tag for the language.
func (l Language) Tag() language.Tag {
	if l == Portuguese {
		return language.Portuguese
	}
	return language.English
}

// Detect picks a supported language from an Accept-Language header value.
// Any Portuguese variant (pt, pt-BR, pt-PT) selects Portuguese; anything
// else, including an empty or malformed header, selects DefaultLanguage.
func Detect(acceptLanguage string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLanguage
	}
	return Supported[index]
}

// Resolve parses s and falls back to detection from acceptLanguage.
func Resolve(s, acceptLanguage string) Language {
	if l, err := ParseLanguage(s); err == nil {
		return l
	}
	return Detect(acceptLanguage)
}
