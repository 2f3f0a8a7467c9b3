package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"frontdesk/config"
	"frontdesk/infras/kafka"
	"frontdesk/infras/otel"
	"frontdesk/internal/domains/booking/model"
	"frontdesk/internal/domains/booking/model/dto"
	"frontdesk/internal/domains/booking/repository"
	guestModel "frontdesk/internal/domains/guest/model"
	guestRepo "frontdesk/internal/domains/guest/repository"
	roomModel "frontdesk/internal/domains/room/model"
	roomRepo "frontdesk/internal/domains/room/repository"
	roomTypeModel "frontdesk/internal/domains/roomtype/model"
	roomTypeRepo "frontdesk/internal/domains/roomtype/repository"
	"frontdesk/shared"
	"frontdesk/shared/cache"
	"frontdesk/shared/constant"
	gDto "frontdesk/shared/dto"
	"frontdesk/shared/failure"
	"frontdesk/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	codeAttempts = 3

	dateLayout = "2006-01-02"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetByCode(ctx context.Context, code string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	CheckAvailability(ctx context.Context, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	Confirm(ctx context.Context, id string) (dto.TransitionResponse, error)
	CheckIn(ctx context.Context, id string) (dto.TransitionResponse, error)
	CheckOut(ctx context.Context, id string) (dto.TransitionResponse, error)
	Cancel(ctx context.Context, id string) (dto.TransitionResponse, error)
	TodayActivity(ctx context.Context) (dto.TodayActivityResponse, error)
	CountNewWebBookings(ctx context.Context, since time.Time) (int, error)
}

type serviceImpl struct {
	repo         repository.Booking
	roomRepo     roomRepo.Room
	roomTypeRepo roomTypeRepo.RoomType
	guestRepo    guestRepo.Guest
	cfg          *config.Config
	cache        cache.RedisCache
	kafka        kafka.Client
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	roomTypeRepo roomTypeRepo.RoomType,
	guestRepo guestRepo.Guest,
	cfg *config.Config,
	cache cache.RedisCache,
	kafka kafka.Client,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		roomTypeRepo: roomTypeRepo,
		guestRepo:    guestRepo,
		cfg:          cfg,
		cache:        cache,
		kafka:        kafka,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	checkIn, checkOut, err := req.StayDates()
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	if !checkIn.Before(checkOut) {
		return res, failure.BadRequestFromString("check-out date must be after check-in date") // nolint:wrapcheck
	}

	guestExists, err := s.guestRepo.Exist(ctx, shared.FilterByID(req.GuestID, guestModel.FieldID, guestModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if guest exists")

		return res, fmt.Errorf("failed to check if guest exists: %w", err)
	}

	if !guestExists {
		return res, failure.BadRequestFromString("guest does not exist") // nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.BadRequestFromString("room does not exist") // nolint:wrapcheck
	}

	if !room.Active || room.Status == roomModel.StatusMaintenance {
		return res, failure.Conflict("room is not available for booking") // nolint:wrapcheck
	}

	roomType, err := s.roomTypeRepo.Get(ctx, shared.FilterByID(room.RoomTypeID, roomTypeModel.FieldID, roomTypeModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room type")

		return res, fmt.Errorf("failed to get room type: %w", err)
	}

	booking, err := s.insertWithFreshCode(ctx, req, user, roomType.BaseRate)
	if err != nil {
		return res, err
	}

	// The room flag only changes for a stay that begins today. A future
	// booking must not touch a room that may be occupied right now.
	if checkIn.Format(dateLayout) == timezone.Now().Format(dateLayout) {
		if err := s.roomRepo.UpdateStatus(ctx, room.ID, roomModel.StatusReserved, user); err != nil {
			log.Warn().Err(err).Str("room_id", room.ID).Msg("failed to mark room reserved")
		}
	}

	s.publishEvent(ctx, booking.ID, booking.BookingCode, booking.RoomID, booking.Status)
	s.invalidateBooking(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

// insertWithFreshCode retries the insert when the generated code
// collides with an existing booking. Collisions are rare; three
// attempts keeps the worst case bounded.
func (s *serviceImpl) insertWithFreshCode(ctx context.Context, req dto.CreateBookingRequest, user string, rate int64) (model.Booking, error) {
	var booking model.Booking

	for attempt := 0; attempt < codeAttempts; attempt++ {
		var err error

		booking, err = req.ToModel(user, generateBookingCode(), rate)
		if err != nil {
			return booking, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
		}

		err = s.repo.CreateIfAvailable(ctx, booking)
		if err == nil {
			return booking, nil
		}

		if errors.Is(err, repository.ErrRoomUnavailable) {
			return booking, failure.Conflict("room is already booked for the selected dates") // nolint:wrapcheck
		}

		if errors.Is(err, repository.ErrCodeTaken) {
			log.Warn().Str("booking_code", booking.BookingCode).Msg("booking code collision, regenerating")

			continue
		}

		log.Error().Err(err).Msg("failed to create booking")

		return booking, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking, failure.InternalError(errors.New("could not allocate a unique booking code")) // nolint:wrapcheck
}

func generateBookingCode() string {
	return fmt.Sprintf("BK%s%04d", timezone.Now().Format("20060102"), rand.IntN(9000)+1000)
}

// CheckAvailability evaluates the stay against the room's live bookings.
// This is the advisory read path; the authoritative check runs inside
// the create transaction.
func (s *serviceImpl) CheckAvailability(ctx context.Context, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	checkIn, checkOut, err := req.StayDates()
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) // nolint:wrapcheck
	}

	if !checkIn.Before(checkOut) {
		return res, failure.BadRequestFromString("check-out date must be after check-in date") // nolint:wrapcheck
	}

	blocking, err := s.repo.FindBlocking(ctx, req.RoomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load room bookings")

		return res, fmt.Errorf("failed to load room bookings: %w", err)
	}

	res.RoomID = req.RoomID
	res.Available = true

	for i := range blocking {
		if blocking[i].Blocks(checkIn, checkOut) {
			res.Available = false

			break
		}
	}

	return res, nil
}

func (s *serviceImpl) Confirm(ctx context.Context, id string) (dto.TransitionResponse, error) {
	return s.transition(ctx, id, model.StatusConfirmed, constant.Empty)
}

func (s *serviceImpl) CheckIn(ctx context.Context, id string) (dto.TransitionResponse, error) {
	return s.transition(ctx, id, model.StatusCheckedIn, roomModel.StatusOccupied)
}

func (s *serviceImpl) CheckOut(ctx context.Context, id string) (dto.TransitionResponse, error) {
	return s.transition(ctx, id, model.StatusCheckedOut, roomModel.StatusAvailable)
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (dto.TransitionResponse, error) {
	return s.transition(ctx, id, model.StatusCancelled, roomModel.StatusAvailable)
}

// cancelKeepsRoom reports whether a cancellation leaves the room flag
// alone. Only cancelling an in-progress stay frees the room; a future
// booking never claimed it in the first place.
func cancelKeepsRoom(to, from string) bool {
	return to == model.StatusCancelled && from != model.StatusCheckedIn
}

// transition applies a lifecycle move. An attempt from a state the move
// does not apply to is reported as not performed, it is not an error.
// The repository re-checks the source state inside the UPDATE so racing
// callers cannot both win.
func (s *serviceImpl) transition(ctx context.Context, id, to, roomStatus string) (res dto.TransitionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.BookingID = booking.ID
	res.Status = booking.Status

	if !model.CanTransition(booking.Status, to) {
		log.Info().
			Str("booking_id", booking.ID).
			Str("from", booking.Status).
			Str("to", to).
			Msg("transition not applicable")

		return res, nil
	}

	performed, err := s.repo.Transition(ctx, booking.ID, booking.Status, to, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to transition booking")

		return res, fmt.Errorf("failed to transition booking: %w", err)
	}

	res.Performed = performed
	if !performed {
		return res, nil
	}

	res.Status = to

	if cancelKeepsRoom(to, booking.Status) {
		roomStatus = constant.Empty
	}

	if roomStatus != constant.Empty {
		if err := s.roomRepo.UpdateStatus(ctx, booking.RoomID, roomStatus, user); err != nil {
			log.Warn().Err(err).Str("room_id", booking.RoomID).Msg("failed to sync room status")
		}
	}

	s.publishEvent(ctx, booking.ID, booking.BookingCode, booking.RoomID, to)
	s.invalidateBooking(ctx, booking.ID)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetByCode(ctx context.Context, code string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByCode")
	defer scope.End()
	defer scope.TraceIfError(err)

	codeFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingCode,
				Operator: gDto.FilterOperatorEq,
				Value:    code,
				Table:    model.TableName,
			},
		},
	}

	booking, err := s.repo.Get(ctx, codeFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking by code")

		return res, fmt.Errorf("failed to get booking by code: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		log.Error().Msg("booking not found")

		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	s.invalidateBooking(ctx, id)

	return nil
}

func (s *serviceImpl) TodayActivity(ctx context.Context) (res dto.TodayActivityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".TodayActivity")
	defer scope.End()
	defer scope.TraceIfError(err)

	today := timezone.Now()

	arrivals, err := s.repo.FindArrivals(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("failed to get today's arrivals")

		return res, fmt.Errorf("failed to get today's arrivals: %w", err)
	}

	departures, err := s.repo.FindDepartures(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("failed to get today's departures")

		return res, fmt.Errorf("failed to get today's departures: %w", err)
	}

	res.CheckIns = make([]dto.BookingResponse, len(arrivals))
	for i, arrival := range arrivals {
		res.CheckIns[i].FromModel(arrival)
	}

	res.CheckOuts = make([]dto.BookingResponse, len(departures))
	for i, departure := range departures {
		res.CheckOuts[i].FromModel(departure)
	}

	return res, nil
}

func (s *serviceImpl) CountNewWebBookings(ctx context.Context, since time.Time) (int, error) {
	count, err := s.repo.CountBySourceSince(ctx, model.SourceWeb, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count new web bookings: %w", err)
	}

	return count, nil
}

// publishEvent emits a lifecycle message for downstream consumers. The
// broker is optional and failures never affect the front-desk operation.
func (s *serviceImpl) publishEvent(ctx context.Context, id, code, roomID, status string) {
	if !s.cfg.Kafka.Enable {
		return
	}

	event := dto.BookingEvent{
		BookingID:   id,
		BookingCode: code,
		RoomID:      roomID,
		Status:      status,
		OccurredAt:  timezone.Now(),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topic.BookingEvents, kafka.Message{Key: id, Value: event}); err != nil {
			log.Warn().Err(err).Str("booking_id", id).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidateBooking(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
