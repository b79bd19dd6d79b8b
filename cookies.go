package sso

import (
	"net/http"
	"time"
)

const defaultCookieName = "lucuma-sso"

// Interface included for testability
type cookieManager interface {
	writeAuthCookie(w http.ResponseWriter, token string)
	readAuthCookie(r *http.Request) (string, bool)
	clearAuthCookie(w http.ResponseWriter)
}

var _ cookieManager = &cookieClient{}

// cookieClient binds signed session tokens to the auth cookie. The token
// is already tamper-evident, so the cookie value is the token itself with
// no further wrapping.
//
// The configured cookie domain must share a suffix with the CORS-allowed
// origin; that agreement is a deployment concern, not checked here.
type cookieClient struct {
	cookieName string
	domain     string
	secure     bool
	ttl        time.Duration
}

func newCookieClient(ttl time.Duration) *cookieClient {
	return &cookieClient{
		cookieName: defaultCookieName,
		secure:     true,
		ttl:        ttl,
	}
}

// writeAuthCookie sets the auth cookie with Max-Age aligned to the token
// ttl. SameSite=Lax is required for the cookie to survive the redirect
// back from the identity provider.
func (c *cookieClient) writeAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    token,
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   int(c.ttl.Seconds()),
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// readAuthCookie returns the signed token from the auth cookie. A missing
// cookie is a normal outcome representing an anonymous caller, not an
// error.
func (c *cookieClient) readAuthCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	return cookie.Value, true
}

func (c *cookieClient) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    "",
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   -1,
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
