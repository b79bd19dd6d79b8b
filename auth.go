package sso

import (
	"encoding/json"
	"net/http"

	"github.com/armanbilge/lucuma-sso/user"
	"github.com/armanbilge/lucuma-sso/userinfo"
	"github.com/cccteam/httpio"
	"github.com/cccteam/logger"
	"go.opentelemetry.io/otel"
)

// resolve maps the auth cookie to a caller identity. An absent cookie
// resolves to an anonymous guest. All token verification failures are
// reported as the same generic unauthorized message so responses never
// distinguish the failure mode.
func (s *Service) resolve(r *http.Request) (user.User, error) {
	tkn, ok := s.readAuthCookie(r)
	if !ok {
		return user.GuestUser{}, nil
	}

	u, err := s.codec.Verify(tkn, s.now())
	if err != nil {
		return nil, httpio.NewUnauthorizedMessageWithError(err, "session invalid")
	}

	return u, nil
}

// WithUser resolves the caller identity and stores it in the request
// context. Requests carrying an invalid or expired token get the cookie
// cleared and a 401; anonymous requests proceed as guests.
func (s *Service) WithUser(next http.Handler) http.Handler {
	return s.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := otel.Tracer(name).Start(r.Context(), "Service.WithUser()")
		defer span.End()

		u, err := s.resolve(r)
		if err != nil {
			s.clearAuthCookie(w)

			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		r = r.WithContext(userinfo.NewCtx(ctx, u))

		// Add user to logging context
		logger.Req(r).AddRequestAttribute("user", u.DisplayName())
		l := logger.Req(r).WithAttributes().AddAttribute("user", u.DisplayName()).Logger()
		r = r.WithContext(logger.NewCtx(r.Context(), l))

		next.ServeHTTP(w, r)

		return nil
	})
}

// RequireAccess gates the wrapped handler behind a minimum access level.
// Denials respond with a generic 403; which role fell short is logged
// server-side only.
func (s *Service) RequireAccess(required user.Access) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return s.handle(func(w http.ResponseWriter, r *http.Request) error {
			ctx, span := otel.Tracer(name).Start(r.Context(), "Service.RequireAccess()")
			defer span.End()

			u := userinfo.FromRequest(r)
			if err := user.VerifyAccess(u, required); err != nil {
				logger.Req(r).Error(err)

				return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewForbiddenMessage("forbidden"))
			}

			next.ServeHTTP(w, r)

			return nil
		})
	}
}

// Authenticated is the handler that reports if the caller has a valid
// session.
func (s *Service) Authenticated() http.HandlerFunc {
	type response struct {
		Authenticated bool   `json:"authenticated"`
		DisplayName   string `json:"displayName,omitempty"`
	}

	return s.handle(func(w http.ResponseWriter, r *http.Request) error {
		_, span := otel.Tracer(name).Start(r.Context(), "Service.Authenticated()")
		defer span.End()

		tkn, ok := s.readAuthCookie(r)
		if !ok {
			return httpio.NewEncoder(w).Ok(response{})
		}

		u, err := s.codec.Verify(tkn, s.now())
		if err != nil {
			s.clearAuthCookie(w)

			return httpio.NewEncoder(w).Ok(response{})
		}

		return httpio.NewEncoder(w).Ok(response{Authenticated: true, DisplayName: u.DisplayName()})
	})
}

// Guest creates a durable guest account and establishes a session for it.
func (s *Service) Guest() http.HandlerFunc {
	return s.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := otel.Tracer(name).Start(r.Context(), "Service.Guest()")
		defer span.End()

		id, err := s.storage.NewGuest(ctx)
		if err != nil {
			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		u := user.GuestUser{ID: id}
		if err := s.issueCookie(w, u); err != nil {
			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		return httpio.NewEncoder(w).Ok(u)
	})
}

// Whoami reports the caller's resolved identity. Standard identities are
// rehydrated from storage because the token carries only role references,
// and display-name changes at the provider must show up here.
func (s *Service) Whoami() http.HandlerFunc {
	return s.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := otel.Tracer(name).Start(r.Context(), "Service.Whoami()")
		defer span.End()

		u, err := s.resolve(r)
		if err != nil {
			s.clearAuthCookie(w)

			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		if su, ok := u.(user.StandardUser); ok {
			rec, err := s.storage.StandardUser(ctx, su.ID)
			if err != nil {
				return httpio.NewEncoder(w).ClientMessage(ctx, err)
			}

			// the token's acting role wins over the stored primary
			su.Profile = rec.Profile
			u = su
		}

		return httpio.NewEncoder(w).Ok(u)
	})
}

// AssumeRole switches a standard caller's acting role to another held role
// and reissues the session token under it.
func (s *Service) AssumeRole() http.HandlerFunc {
	type request struct {
		Role string `json:"role"`
	}

	return s.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx, span := otel.Tracer(name).Start(r.Context(), "Service.AssumeRole()")
		defer span.End()

		u, err := s.resolve(r)
		if err != nil {
			s.clearAuthCookie(w)

			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		su, ok := u.(user.StandardUser)
		if !ok {
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewForbiddenMessage("only standard users hold roles"))
		}

		req := &request{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return httpio.NewEncoder(w).BadRequestMessage(ctx, "malformed request body")
		}

		role, err := user.ParseStandardRole(req.Role)
		if err != nil {
			return httpio.NewEncoder(w).BadRequestMessage(ctx, "unrecognized role")
		}

		assumed, err := su.Assume(role)
		if err != nil {
			return httpio.NewEncoder(w).ClientMessage(ctx, httpio.NewBadRequestMessageWithError(err, "role not held"))
		}

		if err := s.issueCookie(w, assumed); err != nil {
			return httpio.NewEncoder(w).ClientMessage(ctx, err)
		}

		return httpio.NewEncoder(w).Ok(assumed)
	})
}

// Logout clears the auth cookie. Previously issued tokens stay valid until
// they expire; there is no server-side revocation list.
func (s *Service) Logout() http.HandlerFunc {
	return s.handle(func(w http.ResponseWriter, r *http.Request) error {
		_, span := otel.Tracer(name).Start(r.Context(), "Service.Logout()")
		defer span.End()

		s.clearAuthCookie(w)

		return httpio.NewEncoder(w).Ok(nil)
	})
}
