package user

import (
	"strings"

	"github.com/go-playground/errors/v5"
)

// Role is the closed set of assumable authorization labels. Each role maps
// deterministically to exactly one Access level.
type Role interface {
	// Access returns the access level granted by this role.
	Access() Access

	// String returns the canonical wire form of the role.
	String() string

	isRole()
}

var (
	_ Role = GuestRole{}
	_ Role = ServiceRole{}
	_ Role = StandardRole{}
)

// GuestRole is the role held by guest users.
type GuestRole struct{}

func (GuestRole) isRole() {}

func (GuestRole) Access() Access { return AccessGuest }

func (GuestRole) String() string { return "guest" }

// ServiceRole is the role held by a named service user.
type ServiceRole struct {
	Name string
}

func (ServiceRole) isRole() {}

func (ServiceRole) Access() Access { return AccessService }

func (r ServiceRole) String() string { return "service:" + r.Name }

// StandardRoleKind distinguishes the role kinds a standard user may hold.
type StandardRoleKind string

const (
	// RoleKindStandard is the default role assigned on first login.
	RoleKindStandard StandardRoleKind = "standard"
	// RoleKindAdmin grants administrative access.
	RoleKindAdmin StandardRoleKind = "admin"
)

// StandardRole is a role held by a standard user, optionally scoped to an
// organization. The scope is opaque to this subsystem and does not affect
// the access level.
type StandardRole struct {
	Kind  StandardRoleKind
	Scope string
}

func (StandardRole) isRole() {}

func (r StandardRole) Access() Access {
	if r.Kind == RoleKindAdmin {
		return AccessAdmin
	}

	return AccessStandard
}

func (r StandardRole) String() string {
	if r.Scope == "" {
		return string(r.Kind)
	}

	return string(r.Kind) + ":" + r.Scope
}

// ParseRole parses the canonical wire form of a role. Unrecognized forms
// fail with an error rather than defaulting to a guest role.
func ParseRole(s string) (Role, error) {
	kind, rest, _ := strings.Cut(s, ":")
	switch kind {
	case "guest":
		if rest != "" {
			return nil, errors.Newf("malformed guest role %q", s)
		}

		return GuestRole{}, nil
	case "service":
		if rest == "" {
			return nil, errors.Newf("service role %q is missing a name", s)
		}

		return ServiceRole{Name: rest}, nil
	case string(RoleKindStandard), string(RoleKindAdmin):
		return StandardRole{Kind: StandardRoleKind(kind), Scope: rest}, nil
	default:
		return nil, errors.Newf("unrecognized role %q", s)
	}
}

// ParseStandardRole parses the wire form of a standard role, rejecting the
// guest and service forms.
func ParseStandardRole(s string) (StandardRole, error) {
	r, err := ParseRole(s)
	if err != nil {
		return StandardRole{}, err
	}

	sr, ok := r.(StandardRole)
	if !ok {
		return StandardRole{}, errors.Newf("role %q is not a standard role", s)
	}

	return sr, nil
}
