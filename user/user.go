// Package user defines the closed set of principals recognized by the SSO
// service, the roles they may assume, and the ordered access levels used to
// gate operations.
package user

import "fmt"

// Typed ids keep the variants from being confused with one another even
// though the underlying value space overlaps.
type (
	// GuestID identifies a guest user.
	GuestID int64
	// ServiceID identifies a service user.
	ServiceID int64
	// StandardID identifies a standard (ORCID-authenticated) user.
	StandardID int64
)

// User is the closed set of user kinds. The only implementations are
// GuestUser, ServiceUser, and StandardUser; no other variant is ever valid.
type User interface {
	// DisplayName returns a non-empty human-readable name for the user.
	DisplayName() string

	// Role returns the role the user is currently acting under.
	Role() Role

	isUser()
}

var (
	_ User = GuestUser{}
	_ User = ServiceUser{}
	_ User = StandardUser{}
)

// GuestUser is an anonymous principal with the lowest access level.
type GuestUser struct {
	ID GuestID
}

func (GuestUser) isUser() {}

func (GuestUser) DisplayName() string { return "Guest User" }

func (GuestUser) Role() Role { return GuestRole{} }

// ServiceUser is a non-human caller (another internal service) with the
// highest access level.
type ServiceUser struct {
	ID   ServiceID
	Name string
}

func (ServiceUser) isUser() {}

func (u ServiceUser) DisplayName() string { return fmt.Sprintf("Service User (%s)", u.Name) }

func (u ServiceUser) Role() Role { return ServiceRole{Name: u.Name} }

// StandardUser is a human authenticated via ORCID. ActiveRole is always
// present; OtherRoles may be empty. The set of roles the user may act under
// is {ActiveRole} ∪ OtherRoles.
type StandardUser struct {
	ID         StandardID
	ActiveRole StandardRole
	OtherRoles []StandardRole
	Profile    OrcidProfile
}

func (StandardUser) isUser() {}

func (u StandardUser) DisplayName() string { return u.Profile.DisplayName() }

func (u StandardUser) Role() Role { return u.ActiveRole }

// Assume returns a copy of the user acting under the given role. The role
// must be a member of {ActiveRole} ∪ OtherRoles; any other selection fails
// with *InvalidRoleSelectionError.
func (u StandardUser) Assume(role StandardRole) (StandardUser, error) {
	if role == u.ActiveRole {
		return u, nil
	}

	for i, r := range u.OtherRoles {
		if r == role {
			others := make([]StandardRole, 0, len(u.OtherRoles))
			others = append(others, u.OtherRoles[:i]...)
			others = append(others, u.OtherRoles[i+1:]...)
			others = append(others, u.ActiveRole)

			return StandardUser{ID: u.ID, ActiveRole: role, OtherRoles: others, Profile: u.Profile}, nil
		}
	}

	return StandardUser{}, &InvalidRoleSelectionError{Selected: role}
}

// OrcidProfile is the profile record returned by ORCID for an authenticated
// user. It is never mutated by this subsystem except on re-sync at login.
type OrcidProfile struct {
	OrcidID    string `json:"orcidId"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
	CreditName string `json:"creditName,omitempty"`
}

// DisplayName formats the profile's display name. It prefers the credit
// name, then the given and family names, and falls back to the ORCID iD,
// which the provider contract guarantees is present.
func (p OrcidProfile) DisplayName() string {
	switch {
	case p.CreditName != "":
		return p.CreditName
	case p.GivenName != "" && p.FamilyName != "":
		return p.GivenName + " " + p.FamilyName
	case p.FamilyName != "":
		return p.FamilyName
	case p.GivenName != "":
		return p.GivenName
	default:
		return p.OrcidID
	}
}

// RawID returns the untyped id value for a user, for diagnostics and token
// payloads.
func RawID(u User) int64 {
	switch u := u.(type) {
	case GuestUser:
		return int64(u.ID)
	case ServiceUser:
		return int64(u.ID)
	case StandardUser:
		return int64(u.ID)
	default:
		return 0
	}
}
