package store

import (
	"context"
	"fmt"
	"time"

	"github.com/oivmap/oivmap/internal/profile"
	"github.com/oivmap/oivmap/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Caches
	userCache *cache.Cache // cache for users, keyed by username
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	return &Store{
		driver:    driver,
		profile:   profile,
		userCache: cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.userCache.Close()
	return s.driver.Close()
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(ctx, userCacheKey(user.Username), user)
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser returns the single user matching find, or nil when none matches.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.Username != nil && find.ID == nil && find.Role == nil {
		if v, ok := s.userCache.Get(ctx, userCacheKey(*find.Username)); ok {
			if user, ok := v.(*User); ok {
				return user, nil
			}
		}
	}

	list, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	user := list[0]
	s.userCache.Set(ctx, userCacheKey(user.Username), user)
	return user, nil
}

func (s *Store) CreateApproval(ctx context.Context, create *Approval) (*Approval, error) {
	return s.driver.CreateApproval(ctx, create)
}

func (s *Store) ListApprovals(ctx context.Context, find *FindApproval) ([]*Approval, error) {
	return s.driver.ListApprovals(ctx, find)
}

// GetApproval returns the first approval in insertion order matching the
// entity, regardless of approver. Later submissions for the same entity do
// not shadow the first one.
func (s *Store) GetApproval(ctx context.Context, entityType, entityID string) (*Approval, error) {
	list, err := s.driver.ListApprovals(ctx, &FindApproval{
		EntityType: &entityType,
		EntityID:   &entityID,
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func userCacheKey(username string) string {
	return fmt.Sprintf("user:%s", username)
}
