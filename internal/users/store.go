package users

import (
	"context"
	"errors"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrUserExists         = errors.New("user already exists")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)

// User is a registered credential record. Hash is the bcrypt digest of the
// password the user registered with.
type User struct {
	Username string
	Hash     []byte
}

type Directory interface {
	Exists(ctx context.Context, username string) (bool, error)
	Register(ctx context.Context, username, password string) error
	Len(ctx context.Context) (int, error)
}
