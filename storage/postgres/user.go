package postgres

import (
	"context"
	"time"

	"github.com/armanbilge/lucuma-sso/storage"
	"github.com/armanbilge/lucuma-sso/user"
	"github.com/cccteam/httpio"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/go-playground/errors/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
)

var _ storage.UserStore = &UserStorageDriver{}

// uniqueViolation is the PostgreSQL error code for a unique-constraint
// violation, raised when two first logins race on the same ORCID iD.
const uniqueViolation = "23505"

type userRow struct {
	ID         int64  `db:"Id"`
	OrcidID    string `db:"OrcidId"`
	GivenName  string `db:"GivenName"`
	FamilyName string `db:"FamilyName"`
	CreditName string `db:"CreditName"`
}

type roleRow struct {
	Kind      string `db:"Kind"`
	Scope     string `db:"Scope"`
	IsPrimary bool   `db:"IsPrimary"`
}

// StandardUserByOrcid returns the record for the given ORCID iD.
func (d *UserStorageDriver) StandardUserByOrcid(ctx context.Context, orcidID string) (*storage.StandardRecord, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "UserStorageDriver.StandardUserByOrcid()")
	defer span.End()

	query := `
		SELECT
			"Id", "OrcidId", "GivenName", "FamilyName", "CreditName"
		FROM "Users"
		WHERE "Type" = 'standard' AND "OrcidId" = $1
	`

	return d.standardRecord(ctx, d.conn, query, orcidID)
}

// StandardUser returns the record for the given internal id.
func (d *UserStorageDriver) StandardUser(ctx context.Context, id user.StandardID) (*storage.StandardRecord, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "UserStorageDriver.StandardUser()")
	defer span.End()

	query := `
		SELECT
			"Id", "OrcidId", "GivenName", "FamilyName", "CreditName"
		FROM "Users"
		WHERE "Type" = 'standard' AND "Id" = $1
	`

	return d.standardRecord(ctx, d.conn, query, int64(id))
}

func (d *UserStorageDriver) standardRecord(ctx context.Context, conn pgxscan.Querier, query string, arg any) (*storage.StandardRecord, error) {
	u := &userRow{}
	if err := pgxscan.Get(ctx, conn, u, query, arg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpio.NewNotFoundMessagef("standard user %v not found", arg)
		}

		return nil, errors.Wrapf(err, "failed to scan row for user %v", arg)
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

func (d *UserStorageDriver) roles(ctx context.Context, conn pgxscan.Querier, userID int64) (primary user.StandardRole, others []user.StandardRole, err error) {
	query := `
		SELECT
			"Kind", "Scope", "IsPrimary"
		FROM "UserRoles"
		WHERE "UserId" = $1
		ORDER BY "IsPrimary" DESC, "Kind", "Scope"
	`

	var rows []roleRow
	if err := pgxscan.Select(ctx, conn, &rows, query, userID); err != nil {
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
// iD. On first login the account is created with the default primary role;
// on later logins the stored profile snapshot is refreshed when it changed.
// The loser of a concurrent create race retries as a lookup.
func (d *UserStorageDriver) UpsertStandardUser(ctx context.Context, profile user.OrcidProfile) (*storage.StandardRecord, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "UserStorageDriver.UpsertStandardUser()")
	defer span.End()

	if profile.OrcidID == "" {
		return nil, errors.New("profile is missing an ORCID iD")
	}

	rec, err := d.StandardUserByOrcid(ctx, profile.OrcidID)
	switch {
	case err == nil:
		if rec.Profile == profile {
			return rec, nil
		}

		return d.refreshProfile(ctx, rec, profile)
	case httpio.HasNotFound(err):
		rec, err := d.createStandardUser(ctx, profile)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return d.StandardUserByOrcid(ctx, profile.OrcidID)
			}

			return nil, err
		}

		return rec, nil
	default:
		return nil, err
	}
}

func (d *UserStorageDriver) refreshProfile(ctx context.Context, rec *storage.StandardRecord, profile user.OrcidProfile) (*storage.StandardRecord, error) {
	query := `
		UPDATE "Users" SET
			"GivenName" = $1, "FamilyName" = $2, "CreditName" = $3, "UpdatedAt" = $4
		WHERE "Id" = $5
	`

	if _, err := d.conn.Exec(ctx, query, profile.GivenName, profile.FamilyName, profile.CreditName, time.Now(), int64(rec.ID)); err != nil {
		return nil, errors.Wrapf(err, "failed to refresh profile for user %d", rec.ID)
	}

	return &storage.StandardRecord{ID: rec.ID, Role: rec.Role, OtherRoles: rec.OtherRoles, Profile: profile}, nil
}

func (d *UserStorageDriver) createStandardUser(ctx context.Context, profile user.OrcidProfile) (rec *storage.StandardRecord, err error) {
	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "pgx.Tx.Begin()")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Wrap(err, rbErr.Error())
			}
		}
	}()

	insertUser := `
		INSERT INTO "Users"
			("Type", "OrcidId", "GivenName", "FamilyName", "CreditName", "CreatedAt", "UpdatedAt")
		VALUES
			('standard', $1, $2, $3, $4, $5, $5)
		RETURNING "Id"
	`

	var id int64
	if err := tx.QueryRow(ctx, insertUser, profile.OrcidID, profile.GivenName, profile.FamilyName, profile.CreditName, time.Now()).Scan(&id); err != nil {
		return nil, errors.Wrap(err, "failed to insert into table Users")
	}

	insertRole := `
		INSERT INTO "UserRoles"
			("UserId", "Kind", "Scope", "IsPrimary")
		VALUES
			($1, $2, $3, TRUE)
	`

	if _, err := tx.Exec(ctx, insertRole, id, string(storage.DefaultRole.Kind), storage.DefaultRole.Scope); err != nil {
		return nil, errors.Wrap(err, "failed to insert into table UserRoles")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "pgx.Tx.Commit()")
	}

	return &storage.StandardRecord{
		ID:      user.StandardID(id),
		Role:    storage.DefaultRole,
		Profile: profile,
	}, nil
}

// SetRoles replaces the user's role set with the given primary role and
// additional roles.
func (d *UserStorageDriver) SetRoles(ctx context.Context, id user.StandardID, primary user.StandardRole, others []user.StandardRole) (err error) {
	ctx, span := otel.Tracer(name).Start(ctx, "UserStorageDriver.SetRoles()")
	defer span.End()

	tx, err := d.conn.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "pgx.Tx.Begin()")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Wrap(err, rbErr.Error())
			}
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM "UserRoles" WHERE "UserId" = $1`, int64(id)); err != nil {
		return errors.Wrapf(err, "failed to clear roles for user %d", id)
	}

	insertRole := `
		INSERT INTO "UserRoles"
			("UserId", "Kind", "Scope", "IsPrimary")
		VALUES
			($1, $2, $3, $4)
	`

	if _, err := tx.Exec(ctx, insertRole, int64(id), string(primary.Kind), primary.Scope, true); err != nil {
		return errors.Wrapf(err, "failed to insert primary role for user %d", id)
	}
	for _, r := range others {
		if _, err := tx.Exec(ctx, insertRole, int64(id), string(r.Kind), r.Scope, false); err != nil {
			return errors.Wrapf(err, "failed to insert role for user %d", id)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "pgx.Tx.Commit()")
	}

	return nil
}

// NewGuest creates a durable guest account and returns its id.
func (d *UserStorageDriver) NewGuest(ctx context.Context) (user.GuestID, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "UserStorageDriver.NewGuest()")
	defer span.End()

	query := `
		INSERT INTO "Users"
			("Type", "CreatedAt", "UpdatedAt")
		VALUES
			('guest', $1, $1)
		RETURNING "Id"
	`

	var id int64
	if err := d.conn.QueryRow(ctx, query, time.Now()).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "failed to insert into table Users")
	}

	return user.GuestID(id), nil
}
