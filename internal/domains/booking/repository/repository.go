package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"frontdesk/infras/otel"
	"frontdesk/infras/postgres"
	"frontdesk/internal/domains/booking/model"
	"frontdesk/shared/constant"
	gDto "frontdesk/shared/dto"
	"frontdesk/shared/logger"
	gRepo "frontdesk/shared/repository"
	"frontdesk/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrRoomUnavailable is returned when an insert loses the race for a
// room, either to the in-transaction overlap check or to the exclusion
// constraint on the table.
var ErrRoomUnavailable = errors.New("room is not available for the requested dates")

// ErrCodeTaken is returned when a generated booking code collides with
// an existing row. Callers regenerate and retry.
var ErrCodeTaken = errors.New("booking code already in use")

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	CreateIfAvailable(ctx context.Context, booking model.Booking) error
	FindBlocking(ctx context.Context, roomID string) ([]model.Booking, error)
	Transition(ctx context.Context, bookingID, from, to, modifiedBy string) (bool, error)
	FindArrivals(ctx context.Context, day time.Time) ([]model.Booking, error)
	FindDepartures(ctx context.Context, day time.Time) ([]model.Booking, error)
	CountBySourceSince(ctx context.Context, source string, since time.Time) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	store *postgres.Store
	otel  otel.Otel
}

func New(store *postgres.Store, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, store, otel),
		store:      store,
		otel:       otel,
	}
}

const blockingStatuses = "('PENDING', 'CONFIRMED', 'CHECKED_IN')"

// CreateIfAvailable inserts a booking only if the room is free for the
// whole stay. The room row is locked first so two concurrent creates for
// the same room serialize, then the overlap check and the insert run in
// the same transaction. The exclusion constraint on the table backstops
// the check in case a path ever writes outside this method.
func (repo *repositoryImpl) CreateIfAvailable(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateIfAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = repo.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var roomID string
		lockQuery := "SELECT id FROM rooms WHERE id = $1 FOR UPDATE"

		if err := tx.GetContext(ctx, &roomID, lockQuery, booking.RoomID); err != nil {
			return fmt.Errorf("failed to lock room row: %w", err)
		}

		overlapQuery := fmt.Sprintf(
			"SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND %s IN %s AND %s < $2 AND $3 < %s)",
			model.TableName, model.FieldRoomID, model.FieldStatus, blockingStatuses,
			model.FieldCheckInDate, model.FieldCheckOutDate,
		)

		var taken bool
		if err := tx.GetContext(ctx, &taken, overlapQuery, booking.RoomID, booking.CheckOutDate, booking.CheckInDate); err != nil {
			return fmt.Errorf("failed to check room availability: %w", err)
		}

		if taken {
			return ErrRoomUnavailable
		}

		return repo.InsertTx(ctx, tx, booking)
	})
	if err != nil {
		if errors.Is(err, ErrRoomUnavailable) {
			return ErrRoomUnavailable
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch string(pqErr.Code) {
			case constant.PqErrorCodeExclusionViolation:
				return ErrRoomUnavailable
			case constant.PqErrorCodeUniqueViolation:
				return ErrCodeTaken
			}
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// FindBlocking loads every booking that still claims the room. The set
// is small, bounded by how far ahead a room can be booked, so overlap
// evaluation happens in the caller.
func (repo *repositoryImpl) FindBlocking(ctx context.Context, roomID string) (res []model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindBlocking")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s = $1 AND %s IN %s",
		model.TableName, model.FieldRoomID, model.FieldStatus, blockingStatuses,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res, err = postgres.WithConnValue(ctx, repo.store, func(db *sqlx.DB) ([]model.Booking, error) {
		var rows []model.Booking

		return rows, db.SelectContext(ctx, &rows, query, roomID)
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to find blocking bookings: %w", err)
	}

	return res, nil
}

// Transition moves a booking from one status to another with a guarded
// UPDATE. The WHERE clause re-checks the current status so concurrent
// transitions cannot double-apply; the bool reports whether this call
// won. Check-in and check-out also stamp the actual time.
func (repo *repositoryImpl) Transition(ctx context.Context, bookingID, from, to, modifiedBy string) (performed bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	stamp := ""
	switch to {
	case model.StatusCheckedIn:
		stamp = ", actual_check_in = $6"
	case model.StatusCheckedOut:
		stamp = ", actual_check_out = $6"
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s = $1, modified_at = $2, modified_by = $3%s WHERE %s = $4 AND %s = $5",
		model.TableName, model.FieldStatus, stamp, model.FieldID, model.FieldStatus,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	now := timezone.Now()
	args := []any{to, now, modifiedBy, bookingID, from}
	if stamp != "" {
		args = append(args, now)
	}

	err = repo.store.WithConn(ctx, func(db *sqlx.DB) error {
		result, execErr := db.ExecContext(ctx, query, args...)
		if execErr != nil {
			return execErr
		}

		affected, execErr := result.RowsAffected()
		if execErr != nil {
			return execErr
		}

		performed = affected > 0

		return nil
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to transition booking: %w", err)
	}

	return performed, nil
}

func (repo *repositoryImpl) FindArrivals(ctx context.Context, day time.Time) ([]model.Booking, error) {
	return repo.findByDay(ctx, model.FieldCheckInDate, "('PENDING', 'CONFIRMED')", day)
}

func (repo *repositoryImpl) FindDepartures(ctx context.Context, day time.Time) ([]model.Booking, error) {
	return repo.findByDay(ctx, model.FieldCheckOutDate, "('CHECKED_IN')", day)
}

func (repo *repositoryImpl) findByDay(ctx context.Context, dateColumn, statuses string, day time.Time) (res []model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.findByDay")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE %s = $1 AND %s IN %s ORDER BY created_at",
		model.TableName, dateColumn, model.FieldStatus, statuses,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res, err = postgres.WithConnValue(ctx, repo.store, func(db *sqlx.DB) ([]model.Booking, error) {
		var rows []model.Booking

		return rows, db.SelectContext(ctx, &rows, query, day.Format("2006-01-02"))
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to find bookings by day: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) CountBySourceSince(ctx context.Context, source string, since time.Time) (res int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CountBySourceSince")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s = $1 AND created_at > $2",
		model.TableName, model.FieldSource,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	res, err = postgres.WithConnValue(ctx, repo.store, func(db *sqlx.DB) (int, error) {
		var count int

		return count, db.GetContext(ctx, &count, query, source, since)
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to count bookings by source: %w", err)
	}

	return res, nil
}
