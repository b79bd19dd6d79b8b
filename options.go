package sso

// Option defines a function signature for setting cookie binding options.
type Option func(*cookieClient)

// WithCookieName sets the name of the auth cookie. (default: lucuma-sso)
func WithCookieName(name string) Option {
	return func(c *cookieClient) {
		c.cookieName = name
	}
}

// WithCookieDomain sets the domain for the auth cookie.
func WithCookieDomain(domain string) Option {
	return func(c *cookieClient) {
		c.domain = domain
	}
}

// WithInsecureCookies drops the Secure cookie attribute for local
// development over plain http.
func WithInsecureCookies() Option {
	return func(c *cookieClient) {
		c.secure = false
	}
}
