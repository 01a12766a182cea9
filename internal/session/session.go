// Package session identifies anonymous browser clients with a long-lived
// cookie carrying a random UUID.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieName is the client identity cookie.
const CookieName = "portfolio_client"

const maxAge = 365 * 24 * time.Hour

// Peek returns the client ID carried by r, if it is a valid UUID.
func Peek(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// Ensure returns the client ID carried by r, issuing a new cookie on w when
// it is missing or malformed.
func Ensure(w http.ResponseWriter, r *http.Request, secure bool) string {
	if id, ok := Peek(r); ok {
		return id
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
