// Package preferences owns the two persisted client preferences, theme and
// language, and the document root attributes derived from them.
package preferences

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/portfolio/internal/locale"
)

var (
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrInvalidLanguage = errors.New("invalid language")
)

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidTheme) || errors.Is(err, ErrInvalidLanguage) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Store keys.
const (
	KeyTheme    = "theme"
	KeyLanguage = "language"
)

// Theme is the color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// DefaultTheme applies when no theme has been stored.
const DefaultTheme = Dark

// DarkClass is set on the document root while the dark theme is active.
const DarkClass = "dark"

// ParseTheme validates a theme value, case-insensitively.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case Light, Dark:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// DocumentRoot models the attributes the client applies to its root element.
type DocumentRoot struct {
	Classes []string `json:"classes"`
	Lang    string   `json:"lang"`
}

// HasClass reports whether class is set.
func (d DocumentRoot) HasClass(class string) bool {
	for _, c := range d.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Preferences is a snapshot of an AppState.
type Preferences struct {
	Theme    Theme           `json:"theme"`
	Language locale.Language `json:"language"`
	Root     DocumentRoot    `json:"root"`
}
