// Package analytics dispatches fire-and-forget usage events to an external
// collector over an in-process message bus.
package analytics

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	ErrInvalidEvent = errors.New("invalid analytics event")
	ErrClosed       = errors.New("analytics dispatcher closed")
)

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidEvent) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrClosed) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// EventType names a tracked interaction.
type EventType string

const (
	PageView          EventType = "page_view"
	ImageClick        EventType = "image_click"
	LanguageToggle    EventType = "language_toggle"
	ThemeToggle       EventType = "theme_toggle"
	ProjectNavigation EventType = "project_navigation"
)

// EventTypes lists every accepted event type.
var EventTypes = []EventType{PageView, ImageClick, LanguageToggle, ThemeToggle, ProjectNavigation}

// ParseEventType validates s as an event type.
func ParseEventType(s string) (EventType, error) {
	t := EventType(strings.TrimSpace(s))
	for _, known := range EventTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, s)
}

// Event is one tracked interaction.
type Event struct {
	Type      EventType `json:"type"`
	Path      string    `json:"path,omitempty"`
	Label     string    `json:"label,omitempty"`
	Value     string    `json:"value,omitempty"`
	Language  string    `json:"language,omitempty"`
	ClientID  string    `json:"client_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks the event type and field sizes.
func (e Event) Validate() error {
	if _, err := ParseEventType(string(e.Type)); err != nil {
		return err
	}
	for name, v := range map[string]string{"path": e.Path, "label": e.Label, "value": e.Value} {
		if len(v) > 512 {
			return fmt.Errorf("%w: %s too long", ErrInvalidEvent, name)
		}
	}
	return nil
}
