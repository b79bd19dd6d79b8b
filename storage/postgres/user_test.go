package postgres

import (
	"context"
	"testing"

	"github.com/armanbilge/lucuma-sso/storage"
	"github.com/armanbilge/lucuma-sso/user"
	"github.com/cccteam/httpio"
	"github.com/google/go-cmp/cmp"
)

const migrations = "file://../../schema/postgresql/migrations"

func TestClient_FullMigration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := prepareDatabase(ctx, t, migrations)
	if err != nil {
		t.Fatalf("prepareDatabase() error = %v", err)
	}

	if err := db.MigrateDown(migrations); err != nil {
		t.Fatalf("db.MigrateDown() error = %v, wantErr %v", err, false)
	}
}

func TestUserStorageDriver_UpsertStandardUser(t *testing.T) {
	t.Parallel()

	profile := user.OrcidProfile{
		OrcidID:    "0000-0002-1825-0097",
		GivenName:  "Josiah",
		FamilyName: "Carberry",
	}

	ctx := context.Background()
	conn, err := prepareDatabase(ctx, t, migrations)
	if err != nil {
		t.Fatalf("prepareDatabase() error = %v", err)
	}
	d := NewUserStorageDriver(conn.Pool)

	// first login creates the account with the default primary role
	created, err := d.UpsertStandardUser(ctx, profile)
	if err != nil {
		t.Fatalf("UserStorageDriver.UpsertStandardUser() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("UpsertStandardUser() returned a zero id")
	}
	if diff := cmp.Diff(storage.DefaultRole, created.Role); diff != "" {
		t.Errorf("UpsertStandardUser() role mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(profile, created.Profile); diff != "" {
		t.Errorf("UpsertStandardUser() profile mismatch (-want +got):\n%s", diff)
	}

	// re-running with an unchanged profile produces no observable change
	again, err := d.UpsertStandardUser(ctx, profile)
	if err != nil {
		t.Fatalf("UserStorageDriver.UpsertStandardUser() error = %v", err)
	}
	if diff := cmp.Diff(created, again); diff != "" {
		t.Errorf("repeat UpsertStandardUser() mismatch (-want +got):\n%s", diff)
	}

	// a changed profile is refreshed in place
	profile.CreditName = "J. S. Carberry"
	refreshed, err := d.UpsertStandardUser(ctx, profile)
	if err != nil {
		t.Fatalf("UserStorageDriver.UpsertStandardUser() error = %v", err)
	}
	if refreshed.ID != created.ID {
		t.Errorf("UpsertStandardUser() id = %d, want %d", refreshed.ID, created.ID)
	}
	if refreshed.Profile.CreditName != "J. S. Carberry" {
		t.Errorf("UpsertStandardUser() creditName = %q, want %q", refreshed.Profile.CreditName, "J. S. Carberry")
	}

	runAssertions(ctx, t, conn.Pool, []string{
		`SELECT COUNT(*) = 1 FROM "Users" WHERE "OrcidId" = '0000-0002-1825-0097'`,
		`SELECT COUNT(*) = 1 FROM "UserRoles" WHERE "IsPrimary"`,
		`SELECT "CreditName" = 'J. S. Carberry' FROM "Users" WHERE "OrcidId" = '0000-0002-1825-0097'`,
	})
}

func TestUserStorageDriver_StandardUserByOrcid(t *testing.T) {
	t.Parallel()

	profile := user.OrcidProfile{
		OrcidID:    "0000-0002-1825-0097",
		GivenName:  "Josiah",
		FamilyName: "Carberry",
	}

	ctx := context.Background()
	conn, err := prepareDatabase(ctx, t, migrations)
	if err != nil {
		t.Fatalf("prepareDatabase() error = %v", err)
	}
	d := NewUserStorageDriver(conn.Pool)

	if _, err := d.StandardUserByOrcid(ctx, profile.OrcidID); !httpio.HasNotFound(err) {
		t.Fatalf("UserStorageDriver.StandardUserByOrcid() error = %v, want not found", err)
	}

	created, err := d.UpsertStandardUser(ctx, profile)
	if err != nil {
		t.Fatalf("UserStorageDriver.UpsertStandardUser() error = %v", err)
	}

	got, err := d.StandardUserByOrcid(ctx, profile.OrcidID)
	if err != nil {
		t.Fatalf("UserStorageDriver.StandardUserByOrcid() error = %v", err)
	}
	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("StandardUserByOrcid() mismatch (-want +got):\n%s", diff)
	}

	byID, err := d.StandardUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("UserStorageDriver.StandardUser() error = %v", err)
	}
	if diff := cmp.Diff(created, byID); diff != "" {
		t.Errorf("StandardUser() mismatch (-want +got):\n%s", diff)
	}
}

func TestUserStorageDriver_SetRoles(t *testing.T) {
	t.Parallel()

	profile := user.OrcidProfile{
		OrcidID:    "0000-0002-1825-0097",
		GivenName:  "Josiah",
		FamilyName: "Carberry",
	}

	ctx := context.Background()
	conn, err := prepareDatabase(ctx, t, migrations)
	if err != nil {
		t.Fatalf("prepareDatabase() error = %v", err)
	}
	d := NewUserStorageDriver(conn.Pool)

	created, err := d.UpsertStandardUser(ctx, profile)
	if err != nil {
		t.Fatalf("UserStorageDriver.UpsertStandardUser() error = %v", err)
	}

	primary := user.StandardRole{Kind: user.RoleKindAdmin, Scope: "ngo"}
	others := []user.StandardRole{{Kind: user.RoleKindStandard}}
	if err := d.SetRoles(ctx, created.ID, primary, others); err != nil {
		t.Fatalf("UserStorageDriver.SetRoles() error = %v", err)
	}

	got, err := d.StandardUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("UserStorageDriver.StandardUser() error = %v", err)
	}
	if diff := cmp.Diff(primary, got.Role); diff != "" {
		t.Errorf("SetRoles() primary mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(others, got.OtherRoles); diff != "" {
		t.Errorf("SetRoles() other roles mismatch (-want +got):\n%s", diff)
	}

	// roles cannot be attached to a user that does not exist
	if err := d.SetRoles(ctx, created.ID+1, primary, nil); err == nil {
		t.Error("UserStorageDriver.SetRoles() error = nil, wantErr true")
	}
}

func TestUserStorageDriver_NewGuest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	conn, err := prepareDatabase(ctx, t, migrations)
	if err != nil {
		t.Fatalf("prepareDatabase() error = %v", err)
	}
	d := NewUserStorageDriver(conn.Pool)

	first, err := d.NewGuest(ctx)
	if err != nil {
		t.Fatalf("UserStorageDriver.NewGuest() error = %v", err)
	}
	second, err := d.NewGuest(ctx)
	if err != nil {
		t.Fatalf("UserStorageDriver.NewGuest() error = %v", err)
	}
	if first == second {
		t.Errorf("NewGuest() returned duplicate id %d", first)
	}

	runAssertions(ctx, t, conn.Pool, []string{
		`SELECT COUNT(*) = 2 FROM "Users" WHERE "Type" = 'guest'`,
		`SELECT COUNT(*) = 0 FROM "UserRoles"`,
	})
}
