package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Store is the sole entry point to the backing store: it runs a unit of work
// with a connection checked out from the pool and guarantees the connection is
// released on every exit path, including panics. It holds no state of its own
// beyond the pool it delegates to.
type Store struct {
	pool *Pool[*sqlx.DB]
}

func NewStore(pool *Pool[*sqlx.DB]) *Store {
	return &Store{pool: pool}
}

// WithConn acquires a connection, runs fn with it and releases it. Acquisition
// errors (ErrPoolExhausted, ErrConnectivity) and fn's error propagate unmodified.
func (s *Store) WithConn(ctx context.Context, fn func(db *sqlx.DB) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Release(conn)

	return fn(conn)
}

// WithConnValue is the value-returning shape of Store.WithConn.
func WithConnValue[T any](ctx context.Context, s *Store, fn func(db *sqlx.DB) (T, error)) (T, error) {
	var res T

	err := s.WithConn(ctx, func(db *sqlx.DB) error {
		var fnErr error
		res, fnErr = fn(db)

		return fnErr
	})

	return res, err
}

// WithTx runs fn inside a transaction on a single checked-out connection,
// committing on nil and rolling back on error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return s.WithConn(ctx, func(db *sqlx.DB) error {
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}

		defer func() {
			if p := recover(); p != nil {
				_ = tx.Rollback()

				panic(p)
			}
		}()

		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to roll back transaction")
			}

			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing transaction: %w", err)
		}

		return nil
	})
}

// Ping verifies end-to-end connectivity through the pool.
func (s *Store) Ping(ctx context.Context) error {
	return s.WithConn(ctx, func(db *sqlx.DB) error {
		return db.PingContext(ctx)
	})
}
