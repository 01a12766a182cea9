// Package contact validates contact form submissions and delivers them
// through a third-party transactional email API.
package contact

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidForm = errors.New("invalid contact form")
	ErrDelivery    = errors.New("contact delivery failed")
	ErrDisabled    = errors.New("contact delivery not configured")
)

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidForm):
		return http.StatusBadRequest
	case errors.Is(err, ErrDelivery):
		return http.StatusBadGateway
	case errors.Is(err, ErrDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

const (
	maxNameLength    = 120
	maxMessageLength = 5000
)

// Form is one contact submission.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Normalize trims surrounding whitespace.
func (f Form) Normalize() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Validate requires a name, a single bare email address and a message.
func (f Form) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidForm)
	}
	if utf8.RuneCountInString(f.Name) > maxNameLength {
		return fmt.Errorf("%w: name too long", ErrInvalidForm)
	}

	addr, err := mail.ParseAddress(f.Email)
	if err != nil || addr.Address != f.Email {
		return fmt.Errorf("%w: invalid email", ErrInvalidForm)
	}

	if f.Message == "" {
		return fmt.Errorf("%w: message required", ErrInvalidForm)
	}
	if utf8.RuneCountInString(f.Message) > maxMessageLength {
		return fmt.Errorf("%w: message too long", ErrInvalidForm)
	}
	return nil
}
