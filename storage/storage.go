// Package storage defines the persistence contract for durable user
// records. Concrete drivers live in the postgres and spanner subpackages.
package storage

import (
	"context"

	"github.com/armanbilge/lucuma-sso/user"
)

// StandardRecord is the durable record backing a standard user. The
// persistence layer exclusively owns the mapping from ORCID iD to internal
// StandardID.
type StandardRecord struct {
	ID         user.StandardID
	Role       user.StandardRole
	OtherRoles []user.StandardRole
	Profile    user.OrcidProfile
}

// User materializes the record as a StandardUser acting under its primary
// role.
func (r *StandardRecord) User() user.StandardUser {
	return user.StandardUser{
		ID:         r.ID,
		ActiveRole: r.Role,
		OtherRoles: r.OtherRoles,
		Profile:    r.Profile,
	}
}

// UserStore is the persistence collaborator consumed by the session
// orchestrator. Implementations must make UpsertStandardUser atomic on the
// ORCID iD: two concurrent first logins for the same iD must resolve to a
// single internal account.
type UserStore interface {
	// StandardUserByOrcid returns the record for the given ORCID iD. A
	// missing record is reported as an httpio not-found error.
	StandardUserByOrcid(ctx context.Context, orcidID string) (*StandardRecord, error)

	// StandardUser returns the record for the given internal id.
	StandardUser(ctx context.Context, id user.StandardID) (*StandardRecord, error)

	// UpsertStandardUser finds or creates the account for the profile's
	// ORCID iD, refreshing the stored profile snapshot. A first login is
	// created with the default primary role. Re-running with an unchanged
	// profile produces no observable state change.
	UpsertStandardUser(ctx context.Context, profile user.OrcidProfile) (*StandardRecord, error)

	// SetRoles replaces the user's role set with the given primary role
	// and additional roles.
	SetRoles(ctx context.Context, id user.StandardID, primary user.StandardRole, others []user.StandardRole) error

	// NewGuest creates a durable guest account and returns its id.
	NewGuest(ctx context.Context) (user.GuestID, error)
}

// DefaultRole is the primary role assigned to a standard user on first
// login.
var DefaultRole = user.StandardRole{Kind: user.RoleKindStandard}
