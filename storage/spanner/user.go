package spanner

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/armanbilge/lucuma-sso/storage"
	"github.com/armanbilge/lucuma-sso/user"
	"github.com/cccteam/httpio"
	"github.com/cccteam/spxscan"
	"github.com/go-playground/errors/v5"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc/codes"
)

var _ storage.UserStore = &UserStorageDriver{}

type userRow struct {
	ID         int64  `spanner:"Id"`
	OrcidID    string `spanner:"OrcidId"`
	GivenName  string `spanner:"GivenName"`
	FamilyName string `spanner:"FamilyName"`
	CreditName string `spanner:"CreditName"`
}

type roleRow struct {
	Kind      string `spanner:"Kind"`
	Scope     string `spanner:"Scope"`
	IsPrimary bool   `spanner:"IsPrimary"`
}

type querier interface {
	Query(ctx context.Context, statement spanner.Statement) *spanner.RowIterator
}

// StandardUserByOrcid returns the record for the given ORCID iD.
func (d *UserStorageDriver) StandardUserByOrcid(ctx context.Context, orcidID string) (*storage.StandardRecord, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "UserStorageDriver.StandardUserByOrcid()")
	defer span.End()

	stmt := spanner.NewStatement(`
		SELECT
			Id, OrcidId, GivenName, FamilyName, CreditName
		FROM Users
		WHERE Type = 'standard' AND OrcidId = @orcidId
	`)
	stmt.Params["orcidId"] = orcidID

	// standardRecord issues a second query for the roles, so a single-use
	// read-only transaction is not enough here.
	txn := d.spanner.ReadOnlyTransaction()
	defer txn.Close()

	return d.standardRecord(ctx, txn, stmt, orcidID)
}

// StandardUser returns the record for the given internal id.
func (d *UserStorageDriver) StandardUser(ctx context.Context, id user.StandardID) (*storage.StandardRecord, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "UserStorageDriver.StandardUser()")
	defer span.End()

	stmt := spanner.NewStatement(`
		SELECT
			Id, OrcidId, GivenName, FamilyName, CreditName
		FROM Users
		WHERE Type = 'standard' AND Id = @id
	`)
	stmt.Params["id"] = int64(id)

	txn := d.spanner.ReadOnlyTransaction()
	defer txn.Close()

	return d.standardRecord(ctx, txn, stmt, id)
}

func (d *UserStorageDriver) standardRecord(ctx context.Context, conn querier, stmt spanner.Statement, key any) (*storage.StandardRecord, error) {
	u := &userRow{}
	if err := spxscan.Get(ctx, conn, u, stmt); err != nil {
		if errors.Is(err, spxscan.ErrNotFound) {
			return nil, httpio.NewNotFoundMessagef("standard user %v not found", key)
		}

		return nil, errors.Wrapf(err, "failed to scan row for user %v", key)
	}

	role, others, err := d.roles(ctx, conn, u.ID)
	if err != nil {
		return nil, err
	}

	return &storage.StandardRecord{
		ID:         user.StandardID(u.ID),
		Role:       role,
		OtherRoles: others,
		Profile: user.OrcidProfile{
			OrcidID:    u.OrcidID,
			GivenName:  u.GivenName,
			FamilyName: u.FamilyName,
			CreditName: u.CreditName,
		},
	}, nil
}

func (d *UserStorageDriver) roles(ctx context.Context, conn querier, userID int64) (primary user.StandardRole, others []user.StandardRole, err error) {
	stmt := spanner.NewStatement(`
		SELECT
			Kind, Scope, IsPrimary
		FROM UserRoles
		WHERE UserId = @userId
		ORDER BY IsPrimary DESC, Kind, Scope
	`)
	stmt.Params["userId"] = userID

	var rows []roleRow
	if err := spxscan.Select(ctx, conn, &rows, stmt); err != nil {
		return user.StandardRole{}, nil, errors.Wrapf(err, "failed to scan roles for user %d", userID)
	}
	if len(rows) == 0 || !rows[0].IsPrimary {
		return user.StandardRole{}, nil, errors.Newf("user %d has no primary role", userID)
	}

	primary = user.StandardRole{Kind: user.StandardRoleKind(rows[0].Kind), Scope: rows[0].Scope}
	for _, r := range rows[1:] {
		others = append(others, user.StandardRole{Kind: user.StandardRoleKind(r.Kind), Scope: r.Scope})
	}

	return primary, others, nil
}

// UpsertStandardUser finds or creates the account for the profile's ORCID
// iD inside a single read-write transaction, so concurrent first logins
// for the same iD resolve to one internal account.
func (d *UserStorageDriver) UpsertStandardUser(ctx context.Context, profile user.OrcidProfile) (*storage.StandardRecord, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "UserStorageDriver.UpsertStandardUser()")
	defer span.End()

	if profile.OrcidID == "" {
		return nil, errors.New("profile is missing an ORCID iD")
	}

	var rec *storage.StandardRecord
	_, err := d.spanner.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		stmt := spanner.NewStatement(`
			SELECT
				Id, OrcidId, GivenName, FamilyName, CreditName
			FROM Users
			WHERE Type = 'standard' AND OrcidId = @orcidId
		`)
		stmt.Params["orcidId"] = profile.OrcidID

		existing, err := d.standardRecord(ctx, txn, stmt, profile.OrcidID)
		switch {
		case err == nil:
			rec = existing
			if existing.Profile == profile {
				return nil
			}

			update := map[string]any{
				"Id":         int64(existing.ID),
				"GivenName":  profile.GivenName,
				"FamilyName": profile.FamilyName,
				"CreditName": profile.CreditName,
				"UpdatedAt":  time.Now(),
			}
			if err := txn.BufferWrite([]*spanner.Mutation{spanner.UpdateMap("Users", update)}); err != nil {
				return errors.Wrap(err, "spanner.ReadWriteTransaction.BufferWrite()")
			}
			rec = &storage.StandardRecord{ID: existing.ID, Role: existing.Role, OtherRoles: existing.OtherRoles, Profile: profile}

			return nil
		case httpio.HasNotFound(err):
			id, err := newID()
			if err != nil {
				return err
			}

			now := time.Now()
			insertUser := map[string]any{
				"Id":         id,
				"Type":       "standard",
				"OrcidId":    profile.OrcidID,
				"GivenName":  profile.GivenName,
				"FamilyName": profile.FamilyName,
				"CreditName": profile.CreditName,
				"CreatedAt":  now,
				"UpdatedAt":  now,
			}
			insertRole := map[string]any{
				"UserId":    id,
				"Kind":      string(storage.DefaultRole.Kind),
				"Scope":     storage.DefaultRole.Scope,
				"IsPrimary": true,
			}
			if err := txn.BufferWrite([]*spanner.Mutation{
				spanner.InsertMap("Users", insertUser),
				spanner.InsertMap("UserRoles", insertRole),
			}); err != nil {
				return errors.Wrap(err, "spanner.ReadWriteTransaction.BufferWrite()")
			}
			rec = &storage.StandardRecord{ID: user.StandardID(id), Role: storage.DefaultRole, Profile: profile}

			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "spanner.Client.ReadWriteTransaction()")
	}

	return rec, nil
}

// SetRoles replaces the user's role set with the given primary role and
// additional roles.
func (d *UserStorageDriver) SetRoles(ctx context.Context, id user.StandardID, primary user.StandardRole, others []user.StandardRole) error {
	ctx, span := otel.Tracer(name).Start(ctx, "UserStorageDriver.SetRoles()")
	defer span.End()

	mutations := []*spanner.Mutation{
		spanner.Delete("UserRoles", spanner.Key{int64(id)}.AsPrefix()),
		spanner.InsertMap("UserRoles", map[string]any{
			"UserId":    int64(id),
			"Kind":      string(primary.Kind),
			"Scope":     primary.Scope,
			"IsPrimary": true,
		}),
	}
	for _, r := range others {
		mutations = append(mutations, spanner.InsertMap("UserRoles", map[string]any{
			"UserId":    int64(id),
			"Kind":      string(r.Kind),
			"Scope":     r.Scope,
			"IsPrimary": false,
		}))
	}

	if _, err := d.spanner.Apply(ctx, mutations); err != nil {
		// UserRoles is interleaved in Users, so a missing parent row
		// surfaces as NotFound.
		if spanner.ErrCode(err) == codes.NotFound {
			return httpio.NewNotFoundMessagef("standard user %v not found", id)
		}

		return errors.Wrapf(err, "failed to set roles for user %d", id)
	}

	return nil
}

// NewGuest creates a durable guest account and returns its id.
func (d *UserStorageDriver) NewGuest(ctx context.Context) (user.GuestID, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "UserStorageDriver.NewGuest()")
	defer span.End()

	id, err := newID()
	if err != nil {
		return 0, err
	}

	now := time.Now()
	m := spanner.InsertMap("Users", map[string]any{
		"Id":        id,
		"Type":      "guest",
		"CreatedAt": now,
		"UpdatedAt": now,
	})

	if _, err := d.spanner.Apply(ctx, []*spanner.Mutation{m}); err != nil {
		return 0, errors.Wrap(err, "spanner.Client.Apply()")
	}

	return user.GuestID(id), nil
}
