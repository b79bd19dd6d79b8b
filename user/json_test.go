package user

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUser_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		u    User
	}{
		{
			name: "guest",
			u:    GuestUser{ID: 5},
		},
		{
			name: "service",
			u:    ServiceUser{ID: 1, Name: "sync"},
		},
		{
			name: "standard without other roles",
			u: StandardUser{
				ID:         7,
				ActiveRole: StandardRole{Kind: RoleKindStandard},
				Profile:    OrcidProfile{OrcidID: "0000-0002-1825-0097", GivenName: "Josiah", FamilyName: "Carberry"},
			},
		},
		{
			name: "standard with other roles",
			u: StandardUser{
				ID:         7,
				ActiveRole: StandardRole{Kind: RoleKindAdmin, Scope: "gemini"},
				OtherRoles: []StandardRole{
					{Kind: RoleKindStandard},
					{Kind: RoleKindStandard, Scope: "keck"},
				},
				Profile: OrcidProfile{OrcidID: "0000-0002-1825-0097", CreditName: "J. S. Carberry"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data, err := json.Marshal(tt.u)
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}

			got, err := DecodeUser(data)
			if err != nil {
				t.Fatalf("DecodeUser() error = %v", err)
			}
			if diff := cmp.Diff(tt.u, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGuestUser_JSONForm(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(GuestUser{ID: 5})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if want := `{"type":"guest","id":5}`; string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}
}

func TestDecodeUser_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "unknown variant", data: `{"type":"unknown-xyz","id":5}`},
		{name: "missing type tag", data: `{"id":5}`},
		{name: "type tag of wrong kind", data: `{"type":5,"id":5}`},
		{name: "not json", data: `not json`},
		{name: "service without name", data: `{"type":"service","id":1}`},
		{name: "standard with unknown role", data: `{"type":"standard","id":7,"role":"owner"}`},
		{name: "standard with guest role", data: `{"type":"standard","id":7,"role":"guest"}`},
		{name: "standard with malformed other role", data: `{"type":"standard","id":7,"role":"standard","otherRoles":["owner"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeUser([]byte(tt.data))
			if err == nil {
				t.Fatalf("DecodeUser() = %v, want error", got)
			}

			var decErr *DecodingError
			if !errors.As(err, &decErr) {
				t.Errorf("DecodeUser() error = %T, want *DecodingError", err)
			}
			if got != nil {
				t.Errorf("DecodeUser() = %v, want nil on error (no default identity)", got)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		s       string
		want    Role
		wantErr bool
	}{
		{name: "guest", s: "guest", want: GuestRole{}},
		{name: "service", s: "service:sync", want: ServiceRole{Name: "sync"}},
		{name: "standard", s: "standard", want: StandardRole{Kind: RoleKindStandard}},
		{name: "scoped standard", s: "standard:gemini", want: StandardRole{Kind: RoleKindStandard, Scope: "gemini"}},
		{name: "admin", s: "admin", want: StandardRole{Kind: RoleKindAdmin}},
		{name: "guest with trailing scope", s: "guest:x", wantErr: true},
		{name: "service without name", s: "service", wantErr: true},
		{name: "unknown", s: "owner", wantErr: true},
		{name: "empty", s: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRole(tt.s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("ParseRole() = %v, want %v", got, tt.want)
			}
			if got.String() != tt.s {
				t.Errorf("String() = %q, want %q", got.String(), tt.s)
			}
		})
	}
}
