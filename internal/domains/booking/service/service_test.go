package service_test

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"frontdesk/config"
	kafkaMocks "frontdesk/infras/kafka/mocks"
	otelMocks "frontdesk/infras/otel/mocks"
	bookingMocks "frontdesk/internal/domains/booking/mocks"
	"frontdesk/internal/domains/booking/model"
	"frontdesk/internal/domains/booking/model/dto"
	"frontdesk/internal/domains/booking/repository"
	"frontdesk/internal/domains/booking/service"
	guestMocks "frontdesk/internal/domains/guest/mocks"
	roomMocks "frontdesk/internal/domains/room/mocks"
	roomModel "frontdesk/internal/domains/room/model"
	roomTypeMocks "frontdesk/internal/domains/roomtype/mocks"
	roomTypeModel "frontdesk/internal/domains/roomtype/model"
	cacheMocks "frontdesk/shared/cache/mocks"
	"frontdesk/shared/failure"
	"frontdesk/shared/timezone"
)

const (
	guestID    = "3f6c2a9e-80b5-4f7e-9c61-8c2f4d1e0a11"
	roomID     = "5b8d4c7f-91a6-4e8d-8d72-9d3e5f2a0b22"
	roomTypeID = "7d9e6f8a-a2b7-4f9e-9e83-ae4f6a3b0c33"
	bookingID  = "9f0a8b9c-b3c8-4a0f-af94-bf5a7b4c0d44"
)

type serviceMocks struct {
	repo         *bookingMocks.MockBooking
	roomRepo     *roomMocks.MockRoom
	roomTypeRepo *roomTypeMocks.MockRoomType
	guestRepo    *guestMocks.MockGuest
}

func newService(t *testing.T) (service.Booking, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := serviceMocks{
		repo:         bookingMocks.NewMockBooking(ctrl),
		roomRepo:     roomMocks.NewMockRoom(ctrl),
		roomTypeRepo: roomTypeMocks.NewMockRoomType(ctrl),
		guestRepo:    guestMocks.NewMockGuest(ctrl),
	}

	svc := service.New(
		m.repo,
		m.roomRepo,
		m.roomTypeRepo,
		m.guestRepo,
		&config.Config{},
		cacheMocks.NewCache(),
		kafkaMocks.NewClient(),
		otelMocks.NewOtel(),
	)

	return svc, m
}

func activeRoom() roomModel.Room {
	return roomModel.Room{
		ID:         roomID,
		RoomNumber: "101",
		RoomTypeID: roomTypeID,
		Status:     roomModel.StatusAvailable,
		Active:     true,
	}
}

func standardRoomType() roomTypeModel.RoomType {
	return roomTypeModel.RoomType{
		ID:       roomTypeID,
		Name:     "Standard",
		BaseRate: 500000,
		Active:   true,
	}
}

// createRequest builds a three-night stay starting a month out, so
// creating it must not touch the room's current status flag.
func createRequest() dto.CreateBookingRequest {
	checkIn := timezone.Now().AddDate(0, 0, 30)

	return dto.CreateBookingRequest{
		GuestID:      guestID,
		RoomID:       roomID,
		CheckInDate:  checkIn.Format("2006-01-02"),
		CheckOutDate: checkIn.AddDate(0, 0, 3).Format("2006-01-02"),
		Source:       model.SourceFrontDesk,
	}
}

// sameDayRequest builds a stay that begins today.
func sameDayRequest() dto.CreateBookingRequest {
	req := createRequest()
	req.CheckInDate = timezone.Now().Format("2006-01-02")
	req.CheckOutDate = timezone.Now().AddDate(0, 0, 3).Format("2006-01-02")

	return req
}

func TestBookingService_Create(t *testing.T) {
	t.Run("success persists a confirmed booking with the frozen rate", func(t *testing.T) {
		svc, m := newService(t)

		m.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		m.roomTypeRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(standardRoomType(), nil)

		var inserted model.Booking

		m.repo.EXPECT().
			CreateIfAvailable(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) error {
				inserted = booking

				return nil
			})

		// A stay starting in the future must leave the room flag alone,
		// so no room status update is expected here.
		res, err := svc.Create(context.Background(), createRequest())
		require.NoError(t, err)

		// 3 nights at 500000 per night, carried in minor units.
		assert.Equal(t, int64(500000), inserted.RoomRate)
		assert.Equal(t, int64(3), inserted.TotalNights)
		assert.Equal(t, int64(1500000), res.TotalAmount)
		assert.Equal(t, int64(1500000), inserted.TotalAmount)
		assert.Equal(t, model.StatusConfirmed, inserted.Status)
		assert.Regexp(t, regexp.MustCompile(`^BK\d{8}\d{4}$`), inserted.BookingCode)
		assert.Equal(t, inserted.BookingCode, res.BookingCode)
	})

	t.Run("stay beginning today reserves the room", func(t *testing.T) {
		svc, m := newService(t)

		m.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		m.roomTypeRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(standardRoomType(), nil)
		m.repo.EXPECT().CreateIfAvailable(gomock.Any(), gomock.Any()).Return(nil)
		m.roomRepo.EXPECT().
			UpdateStatus(gomock.Any(), roomID, roomModel.StatusReserved, gomock.Any()).
			Return(nil)

		_, err := svc.Create(context.Background(), sameDayRequest())
		assert.NoError(t, err)
	})

	t.Run("web booking is persisted pending", func(t *testing.T) {
		svc, m := newService(t)

		m.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		m.roomTypeRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(standardRoomType(), nil)

		var inserted model.Booking

		m.repo.EXPECT().
			CreateIfAvailable(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) error {
				inserted = booking

				return nil
			})

		req := createRequest()
		req.Source = model.SourceWeb

		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, inserted.Status)
	})

	t.Run("check-out on or before check-in is rejected", func(t *testing.T) {
		svc, _ := newService(t)

		req := createRequest()
		req.CheckOutDate = req.CheckInDate

		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		svc, _ := newService(t)

		req := createRequest()
		req.CheckInDate = "10-03-2026"

		_, err := svc.Create(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown guest is rejected", func(t *testing.T) {
		svc, m := newService(t)

		m.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := svc.Create(context.Background(), createRequest())
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("room under maintenance conflicts", func(t *testing.T) {
		svc, m := newService(t)

		room := activeRoom()
		room.Status = roomModel.StatusMaintenance

		m.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)

		_, err := svc.Create(context.Background(), createRequest())
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("losing the availability race conflicts", func(t *testing.T) {
		svc, m := newService(t)

		m.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		m.roomTypeRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(standardRoomType(), nil)
		m.repo.EXPECT().
			CreateIfAvailable(gomock.Any(), gomock.Any()).
			Return(repository.ErrRoomUnavailable)

		_, err := svc.Create(context.Background(), createRequest())
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("code collision retries with a fresh code", func(t *testing.T) {
		svc, m := newService(t)

		m.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		m.roomTypeRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(standardRoomType(), nil)

		gomock.InOrder(
			m.repo.EXPECT().CreateIfAvailable(gomock.Any(), gomock.Any()).Return(repository.ErrCodeTaken),
			m.repo.EXPECT().CreateIfAvailable(gomock.Any(), gomock.Any()).Return(repository.ErrCodeTaken),
			m.repo.EXPECT().CreateIfAvailable(gomock.Any(), gomock.Any()).Return(nil),
		)

		_, err := svc.Create(context.Background(), createRequest())
		assert.NoError(t, err)
	})

	t.Run("booking survives a failed room status sync", func(t *testing.T) {
		svc, m := newService(t)

		m.guestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeRoom(), nil)
		m.roomTypeRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(standardRoomType(), nil)
		m.repo.EXPECT().CreateIfAvailable(gomock.Any(), gomock.Any()).Return(nil)
		m.roomRepo.EXPECT().
			UpdateStatus(gomock.Any(), roomID, roomModel.StatusReserved, gomock.Any()).
			Return(errors.New("room vanished"))

		_, err := svc.Create(context.Background(), sameDayRequest())
		assert.NoError(t, err)
	})
}

func storedBooking(status string) model.Booking {
	return model.Booking{
		ID:           bookingID,
		BookingCode:  "BK202603101234",
		GuestID:      guestID,
		RoomID:       roomID,
		CheckInDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		Status:       status,
		Source:       model.SourceFrontDesk,
		RoomRate:     500000,
		TotalNights:  3,
		TotalAmount:  1500000,
	}
}

func TestBookingService_Transitions(t *testing.T) {
	tests := []struct {
		name       string
		from       string
		to         string
		roomStatus string
		call       func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error)
	}{
		{
			name: "confirm from pending",
			from: model.StatusPending,
			to:   model.StatusConfirmed,
			call: func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error) {
				return svc.Confirm(ctx, bookingID)
			},
		},
		{
			name:       "check in from confirmed occupies the room",
			from:       model.StatusConfirmed,
			to:         model.StatusCheckedIn,
			roomStatus: roomModel.StatusOccupied,
			call: func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error) {
				return svc.CheckIn(ctx, bookingID)
			},
		},
		{
			name:       "walk-in checks in from pending",
			from:       model.StatusPending,
			to:         model.StatusCheckedIn,
			roomStatus: roomModel.StatusOccupied,
			call: func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error) {
				return svc.CheckIn(ctx, bookingID)
			},
		},
		{
			name:       "check out from checked in frees the room",
			from:       model.StatusCheckedIn,
			to:         model.StatusCheckedOut,
			roomStatus: roomModel.StatusAvailable,
			call: func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error) {
				return svc.CheckOut(ctx, bookingID)
			},
		},
		{
			// The guest never held the room, so the flag stays put.
			name: "cancel from pending leaves the room alone",
			from: model.StatusPending,
			to:   model.StatusCancelled,
			call: func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error) {
				return svc.Cancel(ctx, bookingID)
			},
		},
		{
			name: "cancel from confirmed leaves the room alone",
			from: model.StatusConfirmed,
			to:   model.StatusCancelled,
			call: func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error) {
				return svc.Cancel(ctx, bookingID)
			},
		},
		{
			name:       "cancel from checked in frees the room",
			from:       model.StatusCheckedIn,
			to:         model.StatusCancelled,
			roomStatus: roomModel.StatusAvailable,
			call: func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error) {
				return svc.Cancel(ctx, bookingID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(tt.from), nil)
			m.repo.EXPECT().
				Transition(gomock.Any(), bookingID, tt.from, tt.to, gomock.Any()).
				Return(true, nil)

			if tt.roomStatus != "" {
				m.roomRepo.EXPECT().
					UpdateStatus(gomock.Any(), roomID, tt.roomStatus, gomock.Any()).
					Return(nil)
			}

			res, err := tt.call(svc, context.Background())
			require.NoError(t, err)
			assert.True(t, res.Performed)
			assert.Equal(t, tt.to, res.Status)
			assert.Equal(t, bookingID, res.BookingID)
		})
	}
}

func TestBookingService_IllegalTransitions(t *testing.T) {
	tests := []struct {
		name string
		from string
		call func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error)
	}{
		{
			name: "check in after check out",
			from: model.StatusCheckedOut,
			call: func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error) {
				return svc.CheckIn(ctx, bookingID)
			},
		},
		{
			name: "check out before check in",
			from: model.StatusConfirmed,
			call: func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error) {
				return svc.CheckOut(ctx, bookingID)
			},
		},
		{
			name: "cancel after check out",
			from: model.StatusCheckedOut,
			call: func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error) {
				return svc.Cancel(ctx, bookingID)
			},
		},
		{
			name: "confirm twice",
			from: model.StatusConfirmed,
			call: func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error) {
				return svc.Confirm(ctx, bookingID)
			},
		},
		{
			name: "cancel a cancelled booking",
			from: model.StatusCancelled,
			call: func(svc service.Booking, ctx context.Context) (dto.TransitionResponse, error) {
				return svc.Cancel(ctx, bookingID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			// The repository must not be asked to move the booking here.
			m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(tt.from), nil)

			res, err := tt.call(svc, context.Background())
			require.NoError(t, err)
			assert.False(t, res.Performed)
			assert.Equal(t, tt.from, res.Status)
		})
	}
}

func TestBookingService_TransitionLostRace(t *testing.T) {
	svc, m := newService(t)

	// Another caller moved the booking between the read and the guarded
	// update. No room sync must happen.
	m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusPending), nil)
	m.repo.EXPECT().
		Transition(gomock.Any(), bookingID, model.StatusPending, model.StatusConfirmed, gomock.Any()).
		Return(false, nil)

	res, err := svc.Confirm(context.Background(), bookingID)
	require.NoError(t, err)
	assert.False(t, res.Performed)
}

func TestBookingService_TransitionUnknownBooking(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

	_, err := svc.Confirm(context.Background(), bookingID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestBookingService_CheckAvailability(t *testing.T) {
	request := dto.AvailabilityRequest{
		RoomID:       roomID,
		CheckInDate:  "2026-03-12",
		CheckOutDate: "2026-03-14",
	}

	t.Run("overlapping live booking blocks", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			FindBlocking(gomock.Any(), roomID).
			Return([]model.Booking{storedBooking(model.StatusConfirmed)}, nil)

		res, err := svc.CheckAvailability(context.Background(), request)
		require.NoError(t, err)
		assert.False(t, res.Available)
	})

	t.Run("back to back stay does not block", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			FindBlocking(gomock.Any(), roomID).
			Return([]model.Booking{storedBooking(model.StatusConfirmed)}, nil)

		res, err := svc.CheckAvailability(context.Background(), dto.AvailabilityRequest{
			RoomID:       roomID,
			CheckInDate:  "2026-03-13",
			CheckOutDate: "2026-03-15",
		})
		require.NoError(t, err)
		assert.True(t, res.Available)
	})

	t.Run("cancelled booking does not block", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			FindBlocking(gomock.Any(), roomID).
			Return([]model.Booking{storedBooking(model.StatusCancelled)}, nil)

		res, err := svc.CheckAvailability(context.Background(), request)
		require.NoError(t, err)
		assert.True(t, res.Available)
	})

	t.Run("no bookings means available", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().FindBlocking(gomock.Any(), roomID).Return(nil, nil)

		res, err := svc.CheckAvailability(context.Background(), request)
		require.NoError(t, err)
		assert.True(t, res.Available)
	})

	t.Run("inverted dates are rejected", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.CheckAvailability(context.Background(), dto.AvailabilityRequest{
			RoomID:       roomID,
			CheckInDate:  "2026-03-14",
			CheckOutDate: "2026-03-12",
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestBookingService_TodayActivity(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().
		FindArrivals(gomock.Any(), gomock.Any()).
		Return([]model.Booking{storedBooking(model.StatusConfirmed)}, nil)
	m.repo.EXPECT().
		FindDepartures(gomock.Any(), gomock.Any()).
		Return([]model.Booking{storedBooking(model.StatusCheckedIn)}, nil)

	res, err := svc.TodayActivity(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.CheckIns, 1)
	assert.Len(t, res.CheckOuts, 1)
	assert.Equal(t, model.StatusConfirmed, res.CheckIns[0].Status)
	assert.Equal(t, model.StatusCheckedIn, res.CheckOuts[0].Status)
}

func TestBookingService_CountNewWebBookings(t *testing.T) {
	svc, m := newService(t)

	since := time.Now().Add(-5 * time.Second)

	m.repo.EXPECT().
		CountBySourceSince(gomock.Any(), model.SourceWeb, since).
		Return(2, nil)

	count, err := svc.CountNewWebBookings(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestBookingService_GetByCode(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(storedBooking(model.StatusConfirmed), nil)

	res, err := svc.GetByCode(context.Background(), "BK202603101234")
	require.NoError(t, err)
	assert.Equal(t, "BK202603101234", res.BookingCode)
	assert.Equal(t, "2026-03-10", res.CheckInDate)
	assert.Equal(t, "2026-03-13", res.CheckOutDate)
}

func TestBookingService_UpdateRequiresContent(t *testing.T) {
	svc, _ := newService(t)

	err := svc.Update(context.Background(), dto.UpdateBookingRequest{}, bookingID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestBookingService_ConstantsWiredToStatuses(t *testing.T) {
	// The transition targets the service drives must match what the
	// model accepts, or the guarded update would silently no-op.
	assert.True(t, model.CanTransition(model.StatusPending, model.StatusConfirmed))
	assert.True(t, model.CanTransition(model.StatusPending, model.StatusCheckedIn))
	assert.True(t, model.CanTransition(model.StatusConfirmed, model.StatusCheckedIn))
	assert.True(t, model.CanTransition(model.StatusCheckedIn, model.StatusCheckedOut))
}
