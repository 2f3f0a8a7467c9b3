package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T, size int, timeout time.Duration) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	wrapped := sqlx.NewDb(db, "sqlmock")

	pool := NewPool(size, timeout, func(_ context.Context) (*sqlx.DB, error) {
		return wrapped, nil
	})
	require.NoError(t, pool.Initialize(context.Background()))

	t.Cleanup(pool.Shutdown)

	return NewStore(pool), mock
}

func TestStoreWithConnReleasesOnSuccess(t *testing.T) {
	store, _ := newMockStore(t, 1, 100*time.Millisecond)
	ctx := context.Background()

	for range 3 {
		err := store.WithConn(ctx, func(_ *sqlx.DB) error {
			return nil
		})
		require.NoError(t, err)
	}
}

func TestStoreWithConnReleasesOnError(t *testing.T) {
	store, _ := newMockStore(t, 1, 100*time.Millisecond)
	ctx := context.Background()

	wantErr := errors.New("query failed")

	err := store.WithConn(ctx, func(_ *sqlx.DB) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// With a single slot, a leaked connection would make this time out.
	err = store.WithConn(ctx, func(_ *sqlx.DB) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestStoreWithConnReleasesOnPanic(t *testing.T) {
	store, _ := newMockStore(t, 1, 100*time.Millisecond)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = store.WithConn(ctx, func(_ *sqlx.DB) error {
			panic("boom")
		})
	})

	err := store.WithConn(ctx, func(_ *sqlx.DB) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestStoreWithConnPropagatesExhaustion(t *testing.T) {
	store, _ := newMockStore(t, 1, 100*time.Millisecond)
	ctx := context.Background()

	blocked := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = store.WithConn(ctx, func(_ *sqlx.DB) error {
			close(blocked)
			<-release

			return nil
		})
	}()

	<-blocked

	err := store.WithConn(ctx, func(_ *sqlx.DB) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrPoolExhausted)

	close(release)
}

func TestStoreWithConnValue(t *testing.T) {
	store, _ := newMockStore(t, 1, 100*time.Millisecond)
	ctx := context.Background()

	got, err := WithConnValue(ctx, store, func(_ *sqlx.DB) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	wantErr := errors.New("no rows")

	_, err = WithConnValue(ctx, store, func(_ *sqlx.DB) (int, error) {
		return 0, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestStoreWithTxCommitsOnSuccess(t *testing.T) {
	store, mock := newMockStore(t, 1, 100*time.Millisecond)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rooms").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, execErr := tx.ExecContext(ctx, "UPDATE rooms SET status = 'AVAILABLE'")

		return execErr
	})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreWithTxRollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t, 1, 100*time.Millisecond)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("constraint violated")

	err := store.WithTx(ctx, func(_ *sqlx.Tx) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreWithTxRollsBackOnPanic(t *testing.T) {
	store, mock := newMockStore(t, 1, 100*time.Millisecond)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = store.WithTx(ctx, func(_ *sqlx.Tx) error {
			panic("boom")
		})
	})

	assert.NoError(t, mock.ExpectationsWereMet())

	// The connection must be back in the pool despite the panic.
	err := store.WithConn(ctx, func(_ *sqlx.DB) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestStorePing(t *testing.T) {
	store, _ := newMockStore(t, 1, 100*time.Millisecond)

	assert.NoError(t, store.Ping(context.Background()))
}
