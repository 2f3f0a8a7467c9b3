package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	"frontdesk/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const driverName = "postgres"

// New builds the production pool for the configured Postgres database. Each pool
// slot owns a dedicated single-session handle, so work scoped to an acquired
// handle (including transactions) runs on exactly one backing connection.
func New(cfg *config.Config) *Pool[*sqlx.DB] {
	descriptor := Descriptor(cfg)
	pg := cfg.DB.Postgres

	factory := func(ctx context.Context) (*sqlx.DB, error) {
		return open(ctx, descriptor, pg.Host, pg.Port, pg.Name)
	}

	pool := NewPool(
		pg.Pool.Size,
		time.Duration(pg.Pool.AcquireTimeoutSeconds)*time.Second,
		factory,
	)

	if err := pool.Initialize(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize connection pool")
	}

	return pool
}

// Descriptor renders the connection string for the configured database.
func Descriptor(cfg *config.Config) string {
	pg := cfg.DB.Postgres

	return fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		pg.Username,
		pg.Password,
		net.JoinHostPort(pg.Host, pg.Port),
		pg.Name,
		pg.SSLMode,
	)
}

func open(ctx context.Context, descriptor, host, port, dbName string) (*sqlx.DB, error) {
	sqlDB, err := sqlx.ConnectContext(ctx, driverName, descriptor)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Pin the handle to a single physical session.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	log.
		Debug().
		Str("host", host).
		Str("port", port).
		Str("dbName", dbName).
		Msg("Opened database connection")

	return sqlDB, nil
}
