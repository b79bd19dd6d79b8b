package orcid

import (
	"context"
	"net/http"

	"github.com/armanbilge/lucuma-sso/user"
	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Authenticator is the contract consumed by the session orchestrator.
type Authenticator interface {
	// AuthCodeURL returns the URL to redirect to in order to initiate the
	// ORCID authentication flow.
	AuthCodeURL(w http.ResponseWriter, returnURL string) (string, error)

	// Verify performs the verification and processing of the ORCID
	// callback request and returns the normalized profile together with
	// the URL to redirect to following successful authentication.
	Verify(ctx context.Context, w http.ResponseWriter, r *http.Request) (returnURL string, profile user.OrcidProfile, err error)

	// LoginURL returns the URL to redirect to when an error occurs during
	// the authentication process.
	LoginURL() string
}

// Defined for testability
type provider interface {
	Verifier(config *oidc.Config) *oidc.IDTokenVerifier
	Endpoint() oauth2.Endpoint
}

// Defined for testability
type config interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
	ClientID() string
}
