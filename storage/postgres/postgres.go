// Package postgres implements the user storage driver for PostgreSQL.
package postgres

const name = "github.com/armanbilge/lucuma-sso/storage/postgres"

// UserStorageDriver is the PostgreSQL implementation of storage.UserStore.
type UserStorageDriver struct {
	conn Queryer
}

// NewUserStorageDriver creates a new UserStorageDriver.
func NewUserStorageDriver(conn Queryer) *UserStorageDriver {
	return &UserStorageDriver{
		conn: conn,
	}
}
