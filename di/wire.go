//go:build wireinject
// +build wireinject

package di

import (
	"salon/config"
	"salon/infras/jwt"
	"salon/infras/kafka"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/infras/pubsub"
	"salon/infras/redis"
	"salon/infras/s3"
	"salon/permissions"
	"salon/shared/cache"
	"salon/transport/http"
	"salon/transport/http/middleware"
	"salon/transport/http/router"

	"github.com/google/wire"

	authService "salon/internal/domains/auth/service"
	bookingRepository "salon/internal/domains/booking/repository"
	bookingService "salon/internal/domains/booking/service"
	catalogRepository "salon/internal/domains/catalog/repository"
	catalogService "salon/internal/domains/catalog/service"
	mediaService "salon/internal/domains/media/service"
	notificationService "salon/internal/domains/notification/service"
	roleRepository "salon/internal/domains/role/repository"
	roleService "salon/internal/domains/role/service"
	seedService "salon/internal/domains/seed/service"
	staffRepository "salon/internal/domains/staff/repository"
	staffService "salon/internal/domains/staff/service"
	userRepository "salon/internal/domains/user/repository"
	userService "salon/internal/domains/user/service"
	adminHandler "salon/internal/handlers/admin"
	authHandler "salon/internal/handlers/auth"
	bookingHandler "salon/internal/handlers/booking"
	catalogHandler "salon/internal/handlers/catalog"
	homeHandler "salon/internal/handlers/home"
	staffHandler "salon/internal/handlers/staff"
	streamHandler "salon/internal/handlers/stream"
	userHandler "salon/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	pubsub.New,
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

var roleDomain = wire.NewSet(
	roleRepository.New,
	roleService.New,
	roleService.NewAuthorizer,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
	authService.NewRevoker,
)

var catalogDomain = wire.NewSet(
	catalogRepository.New,
	catalogService.New,
)

var staffDomain = wire.NewSet(
	staffRepository.New,
	staffService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	notificationService.New,
)

var domains = wire.NewSet(
	roleDomain,
	userDomain,
	authDomain,
	catalogDomain,
	staffDomain,
	bookingDomain,
	mediaService.New,
	seedService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	catalogHandler.New,
	staffHandler.New,
	bookingHandler.New,
	homeHandler.New,
	streamHandler.NewHub,
	streamHandler.New,
	adminHandler.New,
	userHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeSeeder() seedService.Seeder {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		pubsub.New,
		sharedHelpers,
		catalogRepository.New,
		staffRepository.New,
		seedService.New,
	)

	return nil
}

func InitializeRole() roleService.Role {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		sharedHelpers,
		roleRepository.New,
		userRepository.New,
		roleService.New,
	)

	return nil
}

func InitializeNotifier() *notificationService.Consumer {
	wire.Build(
		config.Get,
		otel.New,
		kafka.New,
		notificationService.NewDeliverer,
		notificationService.NewConsumer,
	)

	return &notificationService.Consumer{}
}
