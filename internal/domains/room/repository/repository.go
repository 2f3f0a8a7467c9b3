package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"frontdesk/infras/otel"
	"frontdesk/infras/postgres"
	"frontdesk/internal/domains/room/model"
	"frontdesk/shared/constant"
	gDto "frontdesk/shared/dto"
	"frontdesk/shared/logger"
	gRepo "frontdesk/shared/repository"
	"frontdesk/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	UpdateStatus(ctx context.Context, roomID, status, modifiedBy string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	store *postgres.Store
	otel  otel.Otel
}

func New(store *postgres.Store, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, store, otel),
		store:      store,
		otel:       otel,
	}
}

// UpdateStatus flips the denormalized status column by primary key. It is a
// single indexed UPDATE so booking transitions never scan the booking table.
func (repo *repositoryImpl) UpdateStatus(ctx context.Context, roomID, status, modifiedBy string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"UPDATE %s SET %s = $1, modified_at = $2, modified_by = $3 WHERE %s = $4",
		model.TableName, model.FieldStatus, model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.store.WithConn(ctx, func(db *sqlx.DB) error {
		result, execErr := db.ExecContext(ctx, query, status, timezone.Now(), modifiedBy, roomID)
		if execErr != nil {
			return execErr
		}

		affected, execErr := result.RowsAffected()
		if execErr != nil {
			return execErr
		}

		if affected == 0 {
			return fmt.Errorf("room %s not found", roomID)
		}

		return nil
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update room status: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) CountByStatus(ctx context.Context) (res map[string]int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.CountByStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT %s, COUNT(*) AS total FROM %s WHERE active = TRUE GROUP BY %s",
		model.FieldStatus, model.TableName, model.FieldStatus,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	type statusRow struct {
		Status string `db:"status"`
		Total  int    `db:"total"`
	}

	rows, err := postgres.WithConnValue(ctx, repo.store, func(db *sqlx.DB) ([]statusRow, error) {
		var rows []statusRow

		return rows, db.SelectContext(ctx, &rows, query)
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to count rooms by status: %w", err)
	}

	res = make(map[string]int, len(rows))
	for _, row := range rows {
		res[row.Status] = row.Total
	}

	return res, nil
}
