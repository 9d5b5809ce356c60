package session

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/bookstore/internal/common"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path     string
	Secure   bool
	SameSite http.SameSite
	Domain   string
}

func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// SetCookie issues the session cookie to the client.
func SetCookie(w http.ResponseWriter, sessionID string, expiresAt time.Time, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    sessionID,
		Path:     opts.Path,
		Domain:   opts.Domain,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	opts = opts.normalize()

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// cookieValue returns the session id sent by the client, or "".
func cookieValue(r *http.Request) string {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
