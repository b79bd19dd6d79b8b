package user

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUser_DisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		u    User
		want string
	}{
		{
			name: "guest",
			u:    GuestUser{ID: 5},
			want: "Guest User",
		},
		{
			name: "service",
			u:    ServiceUser{ID: 1, Name: "sync"},
			want: "Service User (sync)",
		},
		{
			name: "standard with credit name",
			u: StandardUser{
				ID:         7,
				ActiveRole: StandardRole{Kind: RoleKindStandard},
				Profile:    OrcidProfile{OrcidID: "0000-0002-1825-0097", GivenName: "Josiah", FamilyName: "Carberry", CreditName: "J. S. Carberry"},
			},
			want: "J. S. Carberry",
		},
		{
			name: "standard with given and family names",
			u: StandardUser{
				ID:         7,
				ActiveRole: StandardRole{Kind: RoleKindStandard},
				Profile:    OrcidProfile{OrcidID: "0000-0002-1825-0097", GivenName: "Josiah", FamilyName: "Carberry"},
			},
			want: "Josiah Carberry",
		},
		{
			name: "standard falls back to orcid id",
			u: StandardUser{
				ID:         7,
				ActiveRole: StandardRole{Kind: RoleKindStandard},
				Profile:    OrcidProfile{OrcidID: "0000-0002-1825-0097"},
			},
			want: "0000-0002-1825-0097",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.u.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
			if tt.u.DisplayName() == "" {
				t.Error("DisplayName() is empty, want non-empty for every variant")
			}
		})
	}
}

func TestStandardUser_Assume(t *testing.T) {
	t.Parallel()

	u := StandardUser{
		ID:         7,
		ActiveRole: StandardRole{Kind: RoleKindStandard},
		OtherRoles: []StandardRole{
			{Kind: RoleKindAdmin},
			{Kind: RoleKindStandard, Scope: "gemini"},
		},
		Profile: OrcidProfile{OrcidID: "0000-0002-1825-0097"},
	}

	tests := []struct {
		name    string
		role    StandardRole
		want    StandardUser
		wantErr bool
	}{
		{
			name: "assume active role is a no-op",
			role: StandardRole{Kind: RoleKindStandard},
			want: u,
		},
		{
			name: "assume held role",
			role: StandardRole{Kind: RoleKindAdmin},
			want: StandardUser{
				ID:         7,
				ActiveRole: StandardRole{Kind: RoleKindAdmin},
				OtherRoles: []StandardRole{
					{Kind: RoleKindStandard, Scope: "gemini"},
					{Kind: RoleKindStandard},
				},
				Profile: OrcidProfile{OrcidID: "0000-0002-1825-0097"},
			},
		},
		{
			name:    "assume role not held",
			role:    StandardRole{Kind: RoleKindAdmin, Scope: "gemini"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := u.Assume(tt.role)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Assume() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var selErr *InvalidRoleSelectionError
				if !errors.As(err, &selErr) {
					t.Fatalf("Assume() error = %T, want *InvalidRoleSelectionError", err)
				}

				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Assume() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRawID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		u    User
		want int64
	}{
		{
			name: "guest",
			u:    GuestUser{ID: 5},
			want: 5,
		},
		{
			name: "service",
			u:    ServiceUser{ID: 7, Name: "sync"},
			want: 7,
		},
		{
			name: "standard",
			u:    StandardUser{ID: 42, ActiveRole: StandardRole{Kind: RoleKindStandard}},
			want: 42,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RawID(tt.u); got != tt.want {
				t.Errorf("RawID() = %d, want %d", got, tt.want)
			}
		})
	}
}
