package store

import (
	"context"
	"embed"
	"log/slog"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

//go:embed migration
var migrationFS embed.FS

//go:embed seed
var seedFS embed.FS

const (
	// LatestSchemaFileName is the full schema applied to fresh installations.
	LatestSchemaFileName = "LATEST.sql"
	// SeedUsersFileName holds the static user list loaded into empty stores.
	SeedUsersFileName = "users.json"
)

// Migrate initializes the database schema on fresh installations and seeds
// the static user list when no users exist yet. The memory driver has no
// schema; it only gets the seed.
func (s *Store) Migrate(ctx context.Context) error {
	if s.driver.GetDB() != nil {
		initialized, err := s.driver.IsInitialized(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to check if database is initialized")
		}
		if !initialized {
			if err := s.applyLatestSchema(ctx); err != nil {
				return errors.Wrap(err, "failed to apply latest schema")
			}
			slog.Info("database schema initialized", slog.String("driver", s.profile.Driver))
		}
	}

	if err := s.seedUsers(ctx); err != nil {
		return errors.Wrap(err, "failed to seed users")
	}
	return nil
}

func (s *Store) applyLatestSchema(ctx context.Context) error {
	schemaPath := filepath.Join("migration", s.profile.Driver, LatestSchemaFileName)
	buf, err := migrationFS.ReadFile(schemaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema %q", schemaPath)
	}
	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to execute latest schema")
	}
	return nil
}

func (s *Store) seedUsers(ctx context.Context) error {
	existing, err := s.driver.ListUsers(ctx, &FindUser{})
	if err != nil {
		return errors.Wrap(err, "failed to list users")
	}
	if len(existing) > 0 {
		return nil
	}

	buf, err := seedFS.ReadFile(filepath.Join("seed", SeedUsersFileName))
	if err != nil {
		return errors.Wrap(err, "failed to read seed users")
	}

	var seeds []struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Nickname string `json:"nickname"`
		Role     string `json:"role"`
		OrgID    string `json:"org_id"`
	}
	if err := json.Unmarshal(buf, &seeds); err != nil {
		return errors.Wrap(err, "failed to unmarshal seed users")
	}

	for _, seed := range seeds {
		if _, err := s.driver.CreateUser(ctx, &User{
			Username: seed.Username,
			Password: seed.Password,
			Nickname: seed.Nickname,
			Role:     Role(seed.Role),
			OrgID:    seed.OrgID,
		}); err != nil {
			return errors.Wrapf(err, "failed to seed user %q", seed.Username)
		}
	}
	slog.Info("seeded static user list", slog.Int("count", len(seeds)))
	return nil
}
