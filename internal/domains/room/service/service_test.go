package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"frontdesk/config"
	otelMocks "frontdesk/infras/otel/mocks"
	roomMocks "frontdesk/internal/domains/room/mocks"
	"frontdesk/internal/domains/room/model"
	"frontdesk/internal/domains/room/model/dto"
	"frontdesk/internal/domains/room/service"
	roomTypeMocks "frontdesk/internal/domains/roomtype/mocks"
	cacheMocks "frontdesk/shared/cache/mocks"
	"frontdesk/shared/failure"
)

const (
	roomID     = "5b8d4c7f-91a6-4e8d-8d72-9d3e5f2a0b22"
	roomTypeID = "7d9e6f8a-a2b7-4f9e-9e83-ae4f6a3b0c33"
)

func newService(t *testing.T) (service.Room, *roomMocks.MockRoom, *roomTypeMocks.MockRoomType) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := roomMocks.NewMockRoom(ctrl)
	typeRepo := roomTypeMocks.NewMockRoomType(ctrl)

	svc := service.New(repo, typeRepo, &config.Config{}, cacheMocks.NewCache(), otelMocks.NewOtel())

	return svc, repo, typeRepo
}

func TestRoomService_Create(t *testing.T) {
	req := dto.CreateRoomRequest{
		RoomNumber: "101",
		RoomTypeID: roomTypeID,
		Floor:      1,
	}

	t.Run("success", func(t *testing.T) {
		svc, repo, typeRepo := newService(t)

		typeRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, room model.Room) error {
				assert.Equal(t, "101", room.RoomNumber)
				assert.Equal(t, model.StatusAvailable, room.Status)
				assert.True(t, room.Active)

				return nil
			})

		assert.NoError(t, svc.Create(context.Background(), req))
	})

	t.Run("unknown room type", func(t *testing.T) {
		svc, _, typeRepo := newService(t)

		typeRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("duplicate room number", func(t *testing.T) {
		svc, repo, typeRepo := newService(t)

		typeRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestRoomService_SetStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().
			UpdateStatus(gomock.Any(), roomID, model.StatusMaintenance, gomock.Any()).
			Return(nil)

		err := svc.SetStatus(context.Background(), roomID, dto.SetRoomStatusRequest{
			Status: model.StatusMaintenance,
		})
		assert.NoError(t, err)
	})

	t.Run("unknown status is rejected before any lookup", func(t *testing.T) {
		svc, _, _ := newService(t)

		err := svc.SetStatus(context.Background(), roomID, dto.SetRoomStatusRequest{
			Status: "BROKEN",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown room", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.SetStatus(context.Background(), roomID, dto.SetRoomStatusRequest{
			Status: model.StatusAvailable,
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("repository error propagates", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().
			UpdateStatus(gomock.Any(), roomID, model.StatusOccupied, gomock.Any()).
			Return(errors.New("connection reset"))

		err := svc.SetStatus(context.Background(), roomID, dto.SetRoomStatusRequest{
			Status: model.StatusOccupied,
		})
		assert.Error(t, err)
	})
}

func TestRoomService_StatusSummary(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.EXPECT().CountByStatus(gomock.Any()).Return(map[string]int{
		model.StatusAvailable:   7,
		model.StatusReserved:    2,
		model.StatusOccupied:    5,
		model.StatusMaintenance: 1,
	}, nil)

	res, err := svc.StatusSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, res.Available)
	assert.Equal(t, 2, res.Reserved)
	assert.Equal(t, 5, res.Occupied)
	assert.Equal(t, 1, res.Maintenance)
}

func TestRoomService_StatusSummaryMissingStatusesAreZero(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.EXPECT().CountByStatus(gomock.Any()).Return(map[string]int{
		model.StatusAvailable: 3,
	}, nil)

	res, err := svc.StatusSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Available)
	assert.Zero(t, res.Reserved)
	assert.Zero(t, res.Occupied)
	assert.Zero(t, res.Maintenance)
}
