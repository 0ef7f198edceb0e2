// Package repository opens the configured persistence backend and exposes
// it through the domain repository interfaces.
package repository

import (
	"context"
	"fmt"

	"github.com/Rrens/promptdesk/internal/config"
	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/Rrens/promptdesk/internal/repository/mongodb"
	"github.com/Rrens/promptdesk/internal/repository/postgres"
	"github.com/Rrens/promptdesk/internal/repository/sqlstore"
	"github.com/rs/zerolog/log"
)

type backend interface {
	Ping(ctx context.Context) error
	Close() error
}

// Store is the long-lived persistence resource, acquired once at startup
type Store struct {
	Users    domain.UserRepository
	Projects domain.ProjectRepository
	driver   string
	backend  backend
}

// Open connects to the backend named by cfg.Driver, verifies the
// connection and, when enabled, brings the schema up to date.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.RunMigrations(cfg.DSN()); err != nil {
				db.Close()
				return nil, err
			}
		}
		return newStore(cfg.Driver, db, postgres.NewUserRepository(db), postgres.NewProjectRepository(db)), nil

	case config.DriverMongo:
		client, err := mongodb.NewClient(ctx, cfg.DSN())
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := client.EnsureIndexes(ctx); err != nil {
				client.Close()
				return nil, err
			}
		}
		return newStore(cfg.Driver, client, mongodb.NewUserRepository(client), mongodb.NewProjectRepository(client)), nil

	case config.DriverSQLite, config.DriverMySQL:
		db, err := sqlstore.Open(ctx, sqlstore.Dialect(cfg.Driver), cfg.DSN())
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := db.EnsureSchema(ctx); err != nil {
				db.Close()
				return nil, err
			}
		}
		return newStore(cfg.Driver, db, sqlstore.NewUserRepository(db), sqlstore.NewProjectRepository(db)), nil
	}

	return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
}

func newStore(driver string, b backend, users domain.UserRepository, projects domain.ProjectRepository) *Store {
	log.Info().Str("driver", driver).Msg("Store connected")
	return &Store{
		Users:    users,
		Projects: projects,
		driver:   driver,
		backend:  b,
	}
}

// Driver returns the backend name
func (s *Store) Driver() string {
	return s.driver
}

// Ping verifies store connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Close releases the backend connection
func (s *Store) Close() error {
	return s.backend.Close()
}
