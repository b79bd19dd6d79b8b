// Package spanner implements the user storage driver for Spanner.
package spanner

import (
	"crypto/rand"
	"encoding/binary"

	"cloud.google.com/go/spanner"
	"github.com/go-playground/errors/v5"
)

const name = "github.com/armanbilge/lucuma-sso/storage/spanner"

// UserStorageDriver is the Spanner implementation of storage.UserStore.
type UserStorageDriver struct {
	spanner *spanner.Client
}

// NewUserStorageDriver creates a new UserStorageDriver.
func NewUserStorageDriver(client *spanner.Client) *UserStorageDriver {
	return &UserStorageDriver{
		spanner: client,
	}
}

// newID generates a random positive int64 id. Spanner has no serial
// columns, and random ids avoid hotspotting the primary-key range.
func newID() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, errors.Wrap(err, "rand.Read()")
	}

	id := int64(binary.BigEndian.Uint64(buf[:]) >> 1)
	if id == 0 {
		id = 1
	}

	return id, nil
}
