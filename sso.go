// Package sso wires ORCID authentication, the signed session-token codec,
// and durable user storage into a set of HTTP handlers and middleware.
//
// A session is carried entirely by the token cookie. There is no
// server-side session table: expiry is the only invalidation path, and
// Logout clears the cookie without revoking tokens already in flight.
package sso

import (
	"net/http"
	"time"

	"github.com/armanbilge/lucuma-sso/orcid"
	"github.com/armanbilge/lucuma-sso/storage"
	"github.com/armanbilge/lucuma-sso/token"
	"github.com/armanbilge/lucuma-sso/user"
	"github.com/go-playground/errors/v5"
)

const name = "github.com/armanbilge/lucuma-sso"

// Service implements session establishment and resolution over a
// stateless token cookie.
type Service struct {
	orcid   orcid.Authenticator
	codec   *token.Codec
	storage storage.UserStore
	handle  LogHandler
	now     func() time.Time
	cookieManager
}

// New creates a Service. The cookie lifetime follows the codec's token ttl.
func New(orcidAuth orcid.Authenticator, codec *token.Codec, store storage.UserStore, options ...Option) *Service {
	c := newCookieClient(codec.TTL())
	for _, opt := range options {
		opt(c)
	}

	return &Service{
		orcid:         orcidAuth,
		codec:         codec,
		storage:       store,
		handle:        logHandler,
		now:           time.Now,
		cookieManager: c,
	}
}

// issueCookie signs a session token for u and binds it to the response.
func (s *Service) issueCookie(w http.ResponseWriter, u user.User) error {
	tkn, err := s.codec.Issue(u, s.now())
	if err != nil {
		return errors.Wrap(err, "token.Codec.Issue()")
	}
	s.writeAuthCookie(w, tkn)

	return nil
}
