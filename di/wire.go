//go:build wireinject
// +build wireinject

package di

import (
	"frontdesk/config"
	"frontdesk/infras/jwt"
	"frontdesk/infras/kafka"
	"frontdesk/infras/otel"
	"frontdesk/infras/postgres"
	"frontdesk/infras/redis"
	"frontdesk/infras/s3"
	"frontdesk/internal/events/webbooking"
	"frontdesk/permissions"
	"frontdesk/shared/cache"
	"frontdesk/transport/http"
	"frontdesk/transport/http/middleware"
	"frontdesk/transport/http/router"

	"github.com/google/wire"

	authService "frontdesk/internal/domains/auth/service"
	bookingRepository "frontdesk/internal/domains/booking/repository"
	bookingService "frontdesk/internal/domains/booking/service"
	guestRepository "frontdesk/internal/domains/guest/repository"
	guestService "frontdesk/internal/domains/guest/service"
	roomRepository "frontdesk/internal/domains/room/repository"
	roomService "frontdesk/internal/domains/room/service"
	roomTypeRepository "frontdesk/internal/domains/roomtype/repository"
	roomTypeService "frontdesk/internal/domains/roomtype/service"
	userRepository "frontdesk/internal/domains/user/repository"
	userService "frontdesk/internal/domains/user/service"

	authHandler "frontdesk/internal/handlers/auth"
	bookingHandler "frontdesk/internal/handlers/booking"
	dashboardHandler "frontdesk/internal/handlers/dashboard"
	guestHandler "frontdesk/internal/handlers/guest"
	healthHandler "frontdesk/internal/handlers/health"
	roomHandler "frontdesk/internal/handlers/room"
	roomTypeHandler "frontdesk/internal/handlers/roomtype"
	userHandler "frontdesk/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewStore,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var accountDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var guestDomain = wire.NewSet(
	guestRepository.New,
	guestService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
	roomTypeRepository.New,
	roomTypeService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	accountDomain,
	guestDomain,
	roomDomain,
	bookingDomain,
)

var events = wire.NewSet(
	webbooking.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	guestHandler.New,
	roomHandler.New,
	roomTypeHandler.New,
	bookingHandler.New,
	dashboardHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		events,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
