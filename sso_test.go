package sso

import (
	"net/http"
	"testing"
	"time"

	"github.com/armanbilge/lucuma-sso/orcid"
	"github.com/armanbilge/lucuma-sso/storage"
	"github.com/armanbilge/lucuma-sso/token"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

func newTestService(t *testing.T, authenticator orcid.Authenticator, store storage.UserStore) *Service {
	t.Helper()

	codec, err := token.New(testSigningKey, time.Hour)
	if err != nil {
		t.Fatalf("token.New() error = %v", err)
	}

	s := New(authenticator, codec, store)
	s.handle = func(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if err := handler(w, r); err != nil {
				_ = err
			}
		}
	}

	return s
}

// authCookie finds the auth cookie among the recorder's Set-Cookie headers.
func authCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()

	for _, c := range res.Cookies() {
		if c.Name == defaultCookieName {
			return c
		}
	}

	return nil
}
