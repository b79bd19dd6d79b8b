// Package orcid performs the three-legged OAuth authorization-code flow
// against ORCID via its OpenID Connect endpoints and normalizes the result
// into an OrcidProfile.
package orcid

import (
	"context"
	"net/http"
	"strings"

	"github.com/armanbilge/lucuma-sso/user"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-playground/errors/v5"
	"github.com/gofrs/uuid"
	"github.com/gorilla/securecookie"
	"golang.org/x/oauth2"
)

// DefaultIssuerURL is the production ORCID issuer. Use
// https://sandbox.orcid.org against the ORCID sandbox.
const DefaultIssuerURL = "https://orcid.org"

const defaultLoginURL = "/login"

// Exchange failure kinds. The caller owns retry policy; ErrProviderUnavailable
// is the only kind worth retrying.
var (
	// ErrStateMismatch reports a callback whose state parameter does not
	// match the value recorded when the flow began.
	ErrStateMismatch = errors.New("state parameter mismatch")
	// ErrInvalidCode reports an authorization code the provider rejected.
	ErrInvalidCode = errors.New("authorization code rejected by provider")
	// ErrProviderUnavailable reports a failure to reach the provider's
	// token endpoint.
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	// ErrMalformedResponse reports a token response missing or carrying an
	// unusable identity.
	ErrMalformedResponse = errors.New("malformed provider response")
)

var _ Authenticator = &ORCID{}

// ORCID authenticates users against an ORCID OAuth endpoint.
type ORCID struct {
	provider
	config
	s        *securecookie.SecureCookie
	loginURL string
	secure   bool
}

// Option configures an ORCID authenticator.
type Option func(*ORCID)

// WithLoginURL sets the URL users are redirected to when authentication
// fails. (default: /login)
func WithLoginURL(url string) Option {
	return func(o *ORCID) {
		o.loginURL = url
	}
}

// WithInsecureCookies disables the Secure attribute on the flow cookie for
// local development.
func WithInsecureCookies() Option {
	return func(o *ORCID) {
		o.secure = false
	}
}

// New returns a new ORCID Authenticator. The initial provider discovery
// performs one network round trip to the issuer.
func New(ctx context.Context, s *securecookie.SecureCookie, issuerURL, clientID, clientSecret, redirectURL string, opts ...Option) (*ORCID, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, errors.Wrap(err, "oidc.NewProvider()")
	}

	o := &ORCID{
		provider: provider,
		config: &oAuth2{
			config: oauth2.Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				RedirectURL:  redirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID},
			},
		},
		s:      s,
		secure: true,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// AuthCodeURL returns the URL to redirect to in order to initiate the ORCID
// authentication flow. The anti-CSRF state and the PKCE verifier are
// recorded in a signed, short-lived flow cookie checked by Verify.
func (o *ORCID) AuthCodeURL(w http.ResponseWriter, returnURL string) (string, error) {
	pkceVerifier := oauth2.GenerateVerifier()

	state, err := uuid.NewV4()
	if err != nil {
		return "", errors.Wrap(err, "uuid.NewV4()")
	}

	cval := map[stKey]string{
		stState:        state.String(),
		stPkceVerifier: pkceVerifier,
		stReturnURL:    returnURL,
	}

	if err := o.writeFlowCookie(w, cval); err != nil {
		return "", errors.Wrap(err, "writeFlowCookie()")
	}

	return o.config.AuthCodeURL(state.String(), oauth2.S256ChallengeOption(pkceVerifier)), nil
}

// Verify performs the verification and processing of the ORCID callback
// request: it checks the state parameter against the flow cookie, exchanges
// the authorization code at the provider's token endpoint, and returns the
// normalized profile together with the URL to redirect to afterwards.
//
// A client-supplied profile is never trusted; identity comes only from the
// verified ID token returned by the server-to-server exchange.
func (o *ORCID) Verify(ctx context.Context, w http.ResponseWriter, r *http.Request) (returnURL string, profile user.OrcidProfile, err error) {
	cval, ok := o.readFlowCookie(r)
	if !ok {
		return "", user.OrcidProfile{}, errors.Wrap(ErrStateMismatch, "no login flow in progress")
	}
	o.deleteFlowCookie(w)

	returnURL = safeReturnURL(cval[stReturnURL])

	if r.URL.Query().Get("state") != cval[stState] {
		return "", user.OrcidProfile{}, errors.Wrap(ErrStateMismatch, "invalid 'state' parameter value")
	}

	oauth2Token, err := o.config.Exchange(ctx, r.URL.Query().Get("code"), oauth2.VerifierOption(cval[stPkceVerifier]))
	if err != nil {
		return "", user.OrcidProfile{}, exchangeError(err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return "", user.OrcidProfile{}, errors.Wrap(ErrMalformedResponse, "no id_token in token response")
	}

	verifier := o.provider.Verifier(&oidc.Config{ClientID: o.config.ClientID()})

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", user.OrcidProfile{}, errors.Wrapf(ErrMalformedResponse, "failed to verify ID token: %s", err)
	}

	var claims struct {
		Sub        string `json:"sub"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		CreditName string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", user.OrcidProfile{}, errors.Wrapf(ErrMalformedResponse, "failed to parse ID token claims: %s", err)
	}
	if claims.Sub == "" {
		return "", user.OrcidProfile{}, errors.Wrap(ErrMalformedResponse, "ID token is missing a subject")
	}

	return returnURL, user.OrcidProfile{
		OrcidID:    claims.Sub,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		CreditName: claims.CreditName,
	}, nil
}

// LoginURL returns the URL to redirect to when an error occurs during the
// authentication process.
func (o *ORCID) LoginURL() string {
	if o.loginURL == "" {
		return defaultLoginURL
	}

	return o.loginURL
}

// safeReturnURL constrains the caller-supplied post-login target to
// site-relative paths. Anything absolute or protocol-relative would be an
// open redirect off the back of a successful authentication.
func safeReturnURL(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/\\") {
		return "/"
	}

	return s
}

// exchangeError maps a token-endpoint failure onto the exchange error
// kinds. A response the provider actively rejected is an invalid code;
// everything else is the provider being unreachable.
func exchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		if retrieveErr.Response.StatusCode < http.StatusInternalServerError {
			return errors.Wrapf(ErrInvalidCode, "token endpoint returned %d", retrieveErr.Response.StatusCode)
		}

		return errors.Wrapf(ErrProviderUnavailable, "token endpoint returned %d", retrieveErr.Response.StatusCode)
	}

	return errors.Wrapf(ErrProviderUnavailable, "token endpoint unreachable: %s", err)
}
