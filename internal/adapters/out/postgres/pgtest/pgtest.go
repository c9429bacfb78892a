// Package pgtest starts a disposable PostgreSQL container with the service schema
// applied, for integration tests of the storage adapters and query handlers.
package pgtest

import (
	"context"
	"time"

	"restaurant/internal/adapters/out/postgres"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a migrated database inside a running container.
type Database struct {
	Container *tcpostgres.PostgresContainer
	DB        *gorm.DB
	DSN       string
}

// Start runs a postgres:15-alpine container and applies the embedded migrations.
func Start(ctx context.Context) (*Database, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	d := &Database{Container: container}
	if d.DSN, err = container.ConnectionString(ctx, "sslmode=disable"); err != nil {
		_ = d.Terminate(ctx)
		return nil, err
	}

	if err = postgres.Migrate(ctx, d.DSN); err != nil {
		_ = d.Terminate(ctx)
		return nil, err
	}

	d.DB, err = gorm.Open(gormpostgres.Open(d.DSN), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		_ = d.Terminate(ctx)
		return nil, err
	}
	return d, nil
}

// Truncate empties every table of the schema, including the order counters.
func (d *Database) Truncate() error {
	return d.DB.Exec(
		"TRUNCATE TABLE order_items, orders, dining_tables, products, order_number_sequences",
	).Error
}

func (d *Database) Terminate(ctx context.Context) error {
	return d.Container.Terminate(ctx)
}
