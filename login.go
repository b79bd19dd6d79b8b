package sso

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/armanbilge/lucuma-sso/orcid"
	"github.com/cccteam/httpio"
	"github.com/go-playground/errors/v5"
	"go.opentelemetry.io/otel"
)

// Login initiates the ORCID login flow by redirecting the user to the
// authorization URL.
func (s *Service) Login() http.HandlerFunc {
	return s.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := otel.Tracer(name).Start(r.Context(), "Service.Login()")
		defer span.End()

		returnURL := r.URL.Query().Get("returnUrl")
		authCodeURL, err := s.orcid.AuthCodeURL(w, returnURL)
		if err != nil {
			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		http.Redirect(w, r, authCodeURL, http.StatusFound)

		return nil
	})
}

// Callback is the handler for the callback from ORCID. On success it
// resolves the ORCID profile to a durable standard account, issues a
// session token, and redirects to the recorded return URL.
func (s *Service) Callback() http.HandlerFunc {
	return s.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := otel.Tracer(name).Start(r.Context(), "Service.Callback()")
		defer span.End()

		returnURL, profile, err := s.orcid.Verify(ctx, w, r)
		if err != nil {
			if errors.Is(err, orcid.ErrStateMismatch) {
				return httpio.NewEncoder(w).BadRequestMessage(ctx, "authentication state mismatch")
			}

			msg := "Authentication failed"
			if errors.Is(err, orcid.ErrProviderUnavailable) {
				msg = "ORCID is temporarily unavailable"
			}
			s.redirectToLogin(w, r, msg)

			return errors.Wrap(err, "orcid.Authenticator.Verify()")
		}

		// user is successfully authenticated, resolve the durable account
		rec, err := s.storage.UpsertStandardUser(ctx, profile)
		if err != nil {
			s.redirectToLogin(w, r, "Internal Server Error")

			return errors.Wrap(err, "storage.UserStore.UpsertStandardUser()")
		}

		// token issuance only happens after persistence resolution completes,
		// so an abandoned callback never leaves a partial session
		if err := s.issueCookie(w, rec.User()); err != nil {
			s.redirectToLogin(w, r, "Internal Server Error")

			return errors.Wrap(err, "Service.issueCookie()")
		}

		http.Redirect(w, r, returnURL, http.StatusFound)

		return nil
	})
}

func (s *Service) redirectToLogin(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, fmt.Sprintf("%s?message=%s", s.orcid.LoginURL(), url.QueryEscape(message)), http.StatusFound)
}
