package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"salon/infras/otel"
	"salon/infras/pubsub"
	catalogRepo "salon/internal/domains/catalog/repository"
	catalogService "salon/internal/domains/catalog/service"
	"salon/internal/domains/seed/model/dto"
	staffRepo "salon/internal/domains/staff/repository"
	staffService "salon/internal/domains/staff/service"
	"salon/shared/cache"
	"salon/shared/constant"
	gDto "salon/shared/dto"
	"salon/shared/timezone"

	"github.com/rs/zerolog/log"
)

// Seeder fills empty collections from the fallback catalog.
type Seeder interface {
	EnsureSeeded(ctx context.Context) (dto.SeedResponse, error)
}

type serviceImpl struct {
	catalogRepo catalogRepo.Catalog
	staffRepo   staffRepo.Staff
	bus         pubsub.Bus
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(catalogRepo catalogRepo.Catalog, staffRepo staffRepo.Staff, bus pubsub.Bus, cache cache.RedisCache, otel otel.Otel) Seeder {
	return &serviceImpl{
		catalogRepo: catalogRepo,
		staffRepo:   staffRepo,
		bus:         bus,
		cache:       cache,
		otel:        otel,
	}
}

// EnsureSeeded is idempotent: a collection is only written while it is empty,
// and rows use fixed ids with ON CONFLICT DO NOTHING so concurrent runs insert
// each row at most once.
func (s *serviceImpl) EnsureSeeded(ctx context.Context) (res dto.SeedResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EnsureSeeded")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()

	servicesCount, err := s.catalogRepo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to count services")

		return res, fmt.Errorf("failed to count services: %w", err)
	}

	if servicesCount == 0 {
		res.ServicesInserted, err = s.catalogRepo.InsertBulkIgnore(ctx, FallbackServices(now))
		if err != nil {
			log.Error().Err(err).Msg("failed to seed services")

			return res, fmt.Errorf("failed to seed services: %w", err)
		}
	}

	staffCount, err := s.staffRepo.Count(ctx, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to count staff")

		return res, fmt.Errorf("failed to count staff: %w", err)
	}

	if staffCount == 0 {
		res.StaffInserted, err = s.staffRepo.InsertBulkIgnore(ctx, FallbackStaff(now))
		if err != nil {
			log.Error().Err(err).Msg("failed to seed staff")

			return res, fmt.Errorf("failed to seed staff: %w", err)
		}
	}

	scope.SetAttributes(map[string]any{
		"seed.services": res.ServicesInserted,
		"seed.staff":    res.StaffInserted,
	})

	if res.ServicesInserted > 0 {
		s.changed(ctx, constant.CollectionServices, func(c context.Context) { catalogService.InvalidateAll(c, s.cache) })
	}

	if res.StaffInserted > 0 {
		s.changed(ctx, constant.CollectionStaff, func(c context.Context) { staffService.InvalidateAll(c, s.cache) })
	}

	log.Info().
		Int64("services", res.ServicesInserted).
		Int64("staff", res.StaffInserted).
		Msg("Ensure-seeded finished")

	return res, nil
}

func (s *serviceImpl) changed(ctx context.Context, collection string, invalidate func(context.Context)) {
	c := context.WithoutCancel(ctx)

	invalidate(c)

	if err := s.bus.Publish(c, pubsub.Event{Collection: collection, Action: pubsub.ActionCreated}); err != nil {
		log.Error().Err(err).Str("collection", collection).Msg("failed to publish seed change")
	}
}
