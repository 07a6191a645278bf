// Package memory implements store.Driver on plain in-process slices.
//
// It is the default driver: approvals are an unbounded append-only list and
// nothing survives a restart. Durability is explicitly not a goal here; the
// sqlite and postgres drivers exist for installations that want their
// approval log to outlive the process.
package memory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/oivmap/oivmap/store"
)

type DB struct {
	mu sync.RWMutex

	users     []*store.User
	approvals []*store.Approval

	nextUserID     int32
	nextApprovalID int32
}

// NewDB creates an empty in-memory driver.
func NewDB() store.Driver {
	return &DB{
		nextUserID:     1,
		nextApprovalID: 1,
	}
}

func (*DB) GetDB() *sql.DB {
	return nil
}

func (*DB) Close() error {
	return nil
}

func (d *DB) IsInitialized(context.Context) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users) > 0, nil
}

func (d *DB) CreateUser(_ context.Context, create *store.User) (*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user := *create
	user.ID = d.nextUserID
	d.nextUserID++
	if user.CreatedTs == 0 {
		user.CreatedTs = time.Now().Unix()
	}
	d.users = append(d.users, &user)

	copied := user
	return &copied, nil
}

func (d *DB) ListUsers(_ context.Context, find *store.FindUser) ([]*store.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := make([]*store.User, 0, len(d.users))
	for _, user := range d.users {
		if v := find.ID; v != nil && user.ID != *v {
			continue
		}
		if v := find.Username; v != nil && user.Username != *v {
			continue
		}
		if v := find.Role; v != nil && user.Role != *v {
			continue
		}
		copied := *user
		list = append(list, &copied)
	}
	return list, nil
}

func (d *DB) CreateApproval(_ context.Context, create *store.Approval) (*store.Approval, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	approval := *create
	approval.ID = d.nextApprovalID
	d.nextApprovalID++
	if approval.CreatedTs == 0 {
		approval.CreatedTs = time.Now().Unix()
	}
	d.approvals = append(d.approvals, &approval)

	copied := approval
	return &copied, nil
}

func (d *DB) ListApprovals(_ context.Context, find *store.FindApproval) ([]*store.Approval, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	// Insertion order is part of the contract: lookup is first-match.
	list := make([]*store.Approval, 0)
	for _, approval := range d.approvals {
		if v := find.EntityType; v != nil && approval.EntityType != *v {
			continue
		}
		if v := find.EntityID; v != nil && approval.EntityID != *v {
			continue
		}
		if v := find.ApproverID; v != nil && approval.ApproverID != *v {
			continue
		}
		copied := *approval
		list = append(list, &copied)
	}
	return list, nil
}
