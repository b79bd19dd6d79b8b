// Package token implements the signed session-token codec. A token is a
// compact two-segment string, base64url(payload) "." base64url(signature),
// where the payload is a minimal JSON identity claim and the signature is
// an HMAC-SHA256 over the payload bytes with a key held only by the
// issuing service.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/armanbilge/lucuma-sso/user"
	"github.com/go-playground/errors/v5"
)

// Verification failure kinds. All of them must be reported to end users as
// a generic "session invalid"; distinguishing them externally would give an
// oracle on the signing scheme.
var (
	// ErrBadSignature reports a signature that does not match the payload,
	// from tampering or a wrong key.
	ErrBadSignature = errors.New("token signature mismatch")
	// ErrExpired reports a token past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrMalformed reports a token whose payload cannot be parsed.
	ErrMalformed = errors.New("malformed token")
	// ErrUnknownVariant reports a payload whose variant tag is not one of
	// the closed identity set. Unknown variants fail closed.
	ErrUnknownVariant = errors.New("unknown identity variant in token")
)

// claims is the serialized token payload. It carries a minimal identity
// reference, never the full external profile.
type claims struct {
	Type       string   `json:"type"`
	ID         int64    `json:"id"`
	Role       string   `json:"role,omitempty"`
	OtherRoles []string `json:"otherRoles,omitempty"`
	Iat        int64    `json:"iat"`
	Exp        int64    `json:"exp"`
}

// Codec issues and verifies session tokens. Issue and Verify are pure and
// stateless; a Codec is safe for concurrent use.
type Codec struct {
	key []byte
	ttl time.Duration
}

// New creates a Codec signing with the given key. The key must be at least
// 32 bytes of cryptographically random data.
func New(key []byte, ttl time.Duration) (*Codec, error) {
	if len(key) < 32 {
		return nil, errors.Newf("signing key must be at least 32 bytes, got %d", len(key))
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &Codec{key: key, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a session token for the user, valid from now until now+ttl.
func (c *Codec) Issue(u user.User, now time.Time) (string, error) {
	cl := claims{
		ID:  user.RawID(u),
		Iat: now.Unix(),
		Exp: now.Add(c.ttl).Unix(),
	}

	switch u := u.(type) {
	case user.GuestUser:
		cl.Type = user.TypeGuest
	case user.ServiceUser:
		cl.Type = user.TypeService
		cl.Role = u.Role().String()
	case user.StandardUser:
		cl.Type = user.TypeStandard
		cl.Role = u.ActiveRole.String()
		for _, r := range u.OtherRoles {
			cl.OtherRoles = append(cl.OtherRoles, r.String())
		}
	default:
		return "", errors.Newf("cannot issue token for unknown user type %T", u)
	}

	payload, err := json.Marshal(cl)
	if err != nil {
		return "", errors.Wrap(err, "json.Marshal()")
	}

	return base64.RawURLEncoding.EncodeToString(payload) + "." + base64.RawURLEncoding.EncodeToString(c.sign(payload)), nil
}

// Verify checks the token's signature and expiry and returns the identity
// claim it carries. The profile of a standard-user claim is empty; callers
// needing profile data must resolve it through storage.
func (c *Codec) Verify(token string, now time.Time) (user.User, error) {
	p64, s64, ok := strings.Cut(token, ".")
	if !ok {
		return nil, errors.Wrap(ErrMalformed, "missing signature segment")
	}

	payload, err := base64.RawURLEncoding.DecodeString(p64)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "payload is not base64url")
	}
	sig, err := base64.RawURLEncoding.DecodeString(s64)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, "signature is not base64url")
	}

	// hmac.Equal is constant time.
	if !hmac.Equal(sig, c.sign(payload)) {
		return nil, ErrBadSignature
	}

	var cl claims
	if err := json.Unmarshal(payload, &cl); err != nil {
		return nil, errors.Wrap(ErrMalformed, "payload is not a valid claim")
	}

	u, err := cl.user()
	if err != nil {
		return nil, err
	}

	if now.Unix() > cl.Exp {
		return nil, ErrExpired
	}

	return u, nil
}

func (c *Codec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)

	return mac.Sum(nil)
}

func (cl claims) user() (user.User, error) {
	switch cl.Type {
	case user.TypeGuest:
		return user.GuestUser{ID: user.GuestID(cl.ID)}, nil
	case user.TypeService:
		role, err := user.ParseRole(cl.Role)
		if err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
		svc, ok := role.(user.ServiceRole)
		if !ok {
			return nil, errors.Wrapf(ErrMalformed, "service claim carries role %q", cl.Role)
		}

		return user.ServiceUser{ID: user.ServiceID(cl.ID), Name: svc.Name}, nil
	case user.TypeStandard:
		role, err := user.ParseStandardRole(cl.Role)
		if err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
		var others []user.StandardRole
		for _, s := range cl.OtherRoles {
			r, err := user.ParseStandardRole(s)
			if err != nil {
				return nil, errors.Wrap(ErrMalformed, err.Error())
			}
			others = append(others, r)
		}

		return user.StandardUser{ID: user.StandardID(cl.ID), ActiveRole: role, OtherRoles: others}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownVariant, "type %q", cl.Type)
	}
}
