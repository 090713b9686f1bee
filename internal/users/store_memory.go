package users

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MemDirectory is an append-only list of users in registration order.
type MemDirectory struct {
	mu    sync.RWMutex
	users []User
	cost  int
}

func NewMemDirectory() *MemDirectory {
	return &MemDirectory{cost: bcrypt.DefaultCost}
}

// NewMemDirectoryWithCost is NewMemDirectory with a custom bcrypt cost; tests
// use bcrypt.MinCost to stay fast.
func NewMemDirectoryWithCost(cost int) *MemDirectory {
	return &MemDirectory{cost: cost}
}

func (d *MemDirectory) Exists(ctx context.Context, username string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.exists(username), nil
}

func (d *MemDirectory) exists(username string) bool {
	for _, u := range d.users {
		if u.Username == username {
			return true
		}
	}
	return false
}

func (d *MemDirectory) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ErrPasswordTooLong
	}
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.exists(username) {
		return ErrUserExists
	}

	d.users = append(d.users, User{Username: username, Hash: hash})
	return nil
}

func (d *MemDirectory) Len(ctx context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users), nil
}
