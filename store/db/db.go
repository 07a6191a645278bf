package db

import (
	"github.com/pkg/errors"

	"github.com/oivmap/oivmap/internal/profile"
	"github.com/oivmap/oivmap/store"
	"github.com/oivmap/oivmap/store/db/memory"
	"github.com/oivmap/oivmap/store/db/postgres"
	"github.com/oivmap/oivmap/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// The memory driver is the default and matches the historical behavior:
// approvals live in process memory and vanish on restart. SQLite and
// PostgreSQL persist the same append-only log for installations that
// want it to survive restarts.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "memory":
		driver = memory.NewDB()
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver: %s", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
