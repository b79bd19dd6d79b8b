package user

import "fmt"

// Access is the totally-ordered privilege level used for gating operations.
//
// The relative order of these constants is a security-policy constant.
// Changing it is a breaking policy change, never a routine code change.
type Access int

const (
	AccessGuest Access = iota
	AccessStandard
	AccessAdmin
	AccessService
)

func (a Access) String() string {
	switch a {
	case AccessGuest:
		return "guest"
	case AccessStandard:
		return "standard"
	case AccessAdmin:
		return "admin"
	case AccessService:
		return "service"
	default:
		return fmt.Sprintf("access(%d)", int(a))
	}
}

// VerifyAccess succeeds iff the user's current role grants at least the
// required access level. On failure it returns an *AccessDeniedError whose
// detail is for server-side logs only; callers must not expose it beyond a
// generic denial.
func VerifyAccess(u User, required Access) error {
	role := u.Role()
	if role.Access() >= required {
		return nil
	}

	return &AccessDeniedError{
		Name:     u.DisplayName(),
		ID:       RawID(u),
		Role:     role,
		Required: required,
	}
}

// AccessDeniedError reports that a user's role grants less than the
// required access level.
type AccessDeniedError struct {
	Name     string
	ID       int64
	Role     Role
	Required Access
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: %s (id %d) acting as %s requires at least %s access", e.Name, e.ID, e.Role, e.Required)
}

// InvalidRoleSelectionError reports a caller selecting an acting role the
// user does not hold.
type InvalidRoleSelectionError struct {
	Selected StandardRole
}

func (e *InvalidRoleSelectionError) Error() string {
	return fmt.Sprintf("invalid role selection: user does not hold role %s", e.Selected)
}
