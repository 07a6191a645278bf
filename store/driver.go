package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	// GetDB returns the underlying sql.DB, nil for the memory driver.
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)

	// Approval model related methods.
	CreateApproval(ctx context.Context, create *Approval) (*Approval, error)
	ListApprovals(ctx context.Context, find *FindApproval) ([]*Approval, error)
}
